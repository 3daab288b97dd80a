package storage

import (
	"database/sql"
	"encoding/json"
	"time"
)

// NotifyChannel is the Postgres channel carrying slot change announcements.
const NotifyChannel = "cart_slots"

// Table layout:
//   slot_key   text primary key,
//   value      text not null,
//   updated_at text
const (
	createSlotsTableQuery = `CREATE TABLE IF NOT EXISTS cart_slots (
		slot_key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT
	)`
	getSlotQuery    = `SELECT value FROM cart_slots WHERE slot_key = $1`
	upsertSlotQuery = `
		INSERT INTO cart_slots (slot_key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (slot_key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`
	deleteSlotQuery = `DELETE FROM cart_slots WHERE slot_key = $1`
	notifyQuery     = `SELECT pg_notify($1, $2)`
)

// notification is the NOTIFY payload. The value itself is not carried
// because NOTIFY payloads are size limited; listeners re-read the slot.
type notification struct {
	Key      string `json:"key"`
	Origin   string `json:"origin"`
	Instance string `json:"instance"`
	Removed  bool   `json:"removed,omitempty"`
}

type PostgresBackend struct {
	db       *sql.DB
	instance string
}

// NewPostgresBackend returns a backend writing to cart_slots. instance tags
// the notifications so a Listener in the same process can skip them.
func NewPostgresBackend(db *sql.DB, instance string) *PostgresBackend {
	return &PostgresBackend{db: db, instance: instance}
}

func (b *PostgresBackend) EnsureSchema() error {
	_, err := b.db.Exec(createSlotsTableQuery)
	return err
}

func (b *PostgresBackend) Get(key string) (string, bool, error) {
	var value string
	if err := b.db.QueryRow(getSlotQuery, key).Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (b *PostgresBackend) Set(origin, key, value string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := b.db.Exec(upsertSlotQuery, key, value, now); err != nil {
		return err
	}
	return b.notify(notification{Key: key, Origin: origin, Instance: b.instance})
}

func (b *PostgresBackend) Remove(origin, key string) error {
	if _, err := b.db.Exec(deleteSlotQuery, key); err != nil {
		return err
	}
	return b.notify(notification{Key: key, Origin: origin, Instance: b.instance, Removed: true})
}

func (b *PostgresBackend) notify(n notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	_, err = b.db.Exec(notifyQuery, NotifyChannel, string(payload))
	return err
}
