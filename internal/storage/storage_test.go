package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cenkalti/backoff/v4"
)

func TestHub_SkipsOrigin(t *testing.T) {
	hub := NewHub()
	var gotA, gotB []Change
	cancelA := hub.Subscribe("tab-a", "k", func(c Change) { gotA = append(gotA, c) })
	hub.Subscribe("tab-b", "k", func(c Change) { gotB = append(gotB, c) })
	hub.Subscribe("tab-c", "other", func(c Change) { t.Fatalf("unexpected delivery on other key: %+v", c) })

	hub.Publish(Change{Key: "k", Value: "[]", Origin: "tab-a"})
	if len(gotA) != 0 {
		t.Fatalf("writer must not receive its own change, got %d", len(gotA))
	}
	if len(gotB) != 1 || gotB[0].Value != "[]" {
		t.Fatalf("expected one change for tab-b, got %+v", gotB)
	}

	cancelA()
	cancelA()
	if n := hub.Subscribers("k"); n != 1 {
		t.Fatalf("expected 1 subscriber after cancel, got %d", n)
	}
}

func TestLocal_SaveAndRemoveNotify(t *testing.T) {
	local := NewLocal(NewMemoryBackend(nil), nil)
	var changes []Change
	local.Subscribe("reader", "cart", func(c Change) { changes = append(changes, c) })

	if err := local.Save("writer", "cart", `[{"name":"A"}]`); err != nil {
		t.Fatalf("save: %v", err)
	}
	v, ok, err := local.Load("cart")
	if err != nil || !ok || v != `[{"name":"A"}]` {
		t.Fatalf("load after save = %q %v %v", v, ok, err)
	}
	if err := local.Remove("writer", "cart"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := local.Load("cart"); ok {
		t.Fatalf("expected key removed")
	}
	if len(changes) != 2 || changes[0].Removed || !changes[1].Removed {
		t.Fatalf("unexpected changes %+v", changes)
	}
	if err := local.Save("writer", "", "x"); !errors.Is(err, ErrEmptyKey) {
		t.Fatalf("expected ErrEmptyKey, got %v", err)
	}
}

func TestPostgresBackend_SetNotifies(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	b := NewPostgresBackend(db, "node-1")

	mock.ExpectExec("INSERT INTO cart_slots").WithArgs("betashopCart:1", "[]", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("SELECT pg_notify").WithArgs(NotifyChannel, `{"key":"betashopCart:1","origin":"tab","instance":"node-1"}`).WillReturnResult(sqlmock.NewResult(0, 0))

	if err := b.Set("tab", "betashopCart:1", "[]"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresBackend_GetMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	b := NewPostgresBackend(db, "node-1")

	mock.ExpectQuery("SELECT value FROM cart_slots").WithArgs("missing").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("SELECT value FROM cart_slots").WithArgs("present").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`[{"name":"A"}]`))

	if _, ok, err := b.Get("missing"); ok || err != nil {
		t.Fatalf("expected absent slot without error, got ok=%v err=%v", ok, err)
	}
	v, ok, err := b.Get("present")
	if !ok || err != nil || v != `[{"name":"A"}]` {
		t.Fatalf("unexpected get result %q %v %v", v, ok, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresBackend_RemoveNotifies(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	b := NewPostgresBackend(db, "node-1")

	mock.ExpectExec("DELETE FROM cart_slots").WithArgs("k").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("SELECT pg_notify").WithArgs(NotifyChannel, `{"key":"k","origin":"tab","instance":"node-1","removed":true}`).WillReturnResult(sqlmock.NewResult(0, 0))

	if err := b.Remove("tab", "k"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestListener_HandleRelaysForeignChanges(t *testing.T) {
	backend := NewMemoryBackend(map[string]string{"k": `[{"name":"B"}]`})
	hub := NewHub()
	l := NewListener("", "node-1", backend, hub, nil)

	var got []Change
	hub.Subscribe("local-tab", "k", func(c Change) { got = append(got, c) })

	l.handle(`{"key":"k","origin":"remote-tab","instance":"node-1"}`)
	l.handle(`not json`)
	if len(got) != 0 {
		t.Fatalf("own-instance or malformed notifications must be skipped, got %+v", got)
	}

	l.handle(`{"key":"k","origin":"remote-tab","instance":"node-2"}`)
	l.handle(`{"key":"k","origin":"remote-tab","instance":"node-2","removed":true}`)
	if len(got) != 2 {
		t.Fatalf("expected 2 relayed changes, got %d", len(got))
	}
	if got[0].Value != `[{"name":"B"}]` || got[0].Removed {
		t.Fatalf("expected reloaded value, got %+v", got[0])
	}
	if !got[1].Removed {
		t.Fatalf("expected removal, got %+v", got[1])
	}
}

func TestListener_SuperviseReconnects(t *testing.T) {
	l := NewListener("", "node-1", NewMemoryBackend(nil), NewHub(), nil)
	l.backoff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	attempts := 0
	l.run = func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("connection refused")
		}
		cancel()
		<-ctx.Done()
		return nil
	}

	if err := l.Supervise(ctx); err != nil {
		t.Fatalf("expected clean stop on cancel, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 connection attempts, got %d", attempts)
	}
}

func TestListener_SuperviseStopsWhenBackoffGivesUp(t *testing.T) {
	l := NewListener("", "node-1", NewMemoryBackend(nil), NewHub(), nil)
	l.backoff = func() backoff.BackOff { return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 2) }
	attempts := 0
	l.run = func(context.Context) error {
		attempts++
		return errors.New("connection refused")
	}

	if err := l.Supervise(context.Background()); err == nil {
		t.Fatal("expected the last connection error")
	}
	if attempts != 3 {
		t.Fatalf("expected 1 attempt plus 2 retries, got %d", attempts)
	}
}
