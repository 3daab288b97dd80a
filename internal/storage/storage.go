package storage

import "errors"

var (
	ErrEmptyKey = errors.New("storage key is empty")
)

// Change is delivered to subscribers of a key when another page context
// writes it. Value is the new serialized value; Removed is set when the key
// was deleted (Value is then empty).
type Change struct {
	Key     string `json:"key"`
	Value   string `json:"value"`
	Removed bool   `json:"removed,omitempty"`
	Origin  string `json:"origin"`
}

// Backend is a flat key-value slot store.
type Backend interface {
	Get(key string) (string, bool, error)
	Set(origin, key, value string) error
	Remove(origin, key string) error
}

// Port is what a cart store talks to: load/save plus change subscription.
// origin identifies the page context performing the write so that it is not
// notified about its own changes.
type Port interface {
	Load(key string) (string, bool, error)
	Save(origin, key, value string) error
	Remove(origin, key string) error
	Subscribe(origin, key string, fn func(Change)) (cancel func())
}
