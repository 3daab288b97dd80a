package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const maxReconnectInterval = 30 * time.Second

// Listener relays slot changes written by other service instances into the
// local hub. Notifications tagged with our own instance are skipped because
// Local already published them.
type Listener struct {
	url      string
	instance string
	backend  Backend
	hub      *Hub
	log      *zap.Logger

	run     func(context.Context) error
	backoff func() backoff.BackOff
}

func NewListener(url, instance string, backend Backend, hub *Hub, log *zap.Logger) *Listener {
	if log == nil {
		log = zap.NewNop()
	}
	l := &Listener{url: url, instance: instance, backend: backend, hub: hub, log: log}
	l.run = l.Run
	l.backoff = func() backoff.BackOff {
		b := backoff.NewExponentialBackOff()
		b.MaxInterval = maxReconnectInterval
		b.MaxElapsedTime = 0
		return b
	}
	return l
}

// Supervise keeps the listener connected, reconnecting with exponential
// backoff whenever the connection drops, until ctx is done.
func (l *Listener) Supervise(ctx context.Context) error {
	op := func() error {
		err := l.run(ctx)
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		l.log.Warn("slot listener disconnected, reconnecting", zap.Duration("in", wait), zap.Error(err))
	}
	err := backoff.RetryNotify(op, backoff.WithContext(l.backoff(), ctx), notify)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// Run blocks until ctx is done or the connection fails.
func (l *Listener) Run(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, l.url)
	if err != nil {
		return err
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{NotifyChannel}.Sanitize()); err != nil {
		return err
	}
	l.log.Info("listening for cart slot changes", zap.String("channel", NotifyChannel))

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		l.handle(n.Payload)
	}
}

func (l *Listener) handle(payload string) {
	var n notification
	if err := json.Unmarshal([]byte(payload), &n); err != nil {
		l.log.Warn("malformed slot notification", zap.Error(err))
		return
	}
	if n.Instance == l.instance || n.Key == "" {
		return
	}

	c := Change{Key: n.Key, Origin: n.Origin, Removed: n.Removed}
	if !n.Removed {
		value, ok, err := l.backend.Get(n.Key)
		if err != nil {
			l.log.Warn("could not reload changed slot", zap.String("key", n.Key), zap.Error(err))
			return
		}
		if !ok {
			c.Removed = true
		}
		c.Value = value
	}
	l.hub.Publish(c)
}
