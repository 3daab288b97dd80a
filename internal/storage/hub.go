package storage

import "sync"

type subscriber struct {
	origin string
	fn     func(Change)
}

// Hub fans out key changes to every subscriber except the writer.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[int]subscriber
	nextID int
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]subscriber)}
}

// Subscribe registers fn for changes of key. The returned func removes the
// subscription and is safe to call more than once.
func (h *Hub) Subscribe(origin, key string, fn func(Change)) func() {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	if h.subs[key] == nil {
		h.subs[key] = make(map[int]subscriber)
	}
	h.subs[key][id] = subscriber{origin: origin, fn: fn}
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[key], id)
			if len(h.subs[key]) == 0 {
				delete(h.subs, key)
			}
		})
	}
}

// Publish delivers c synchronously to the subscribers of c.Key whose origin
// differs from c.Origin.
func (h *Hub) Publish(c Change) {
	h.mu.RLock()
	targets := make([]func(Change), 0, len(h.subs[c.Key]))
	for _, s := range h.subs[c.Key] {
		if s.origin == c.Origin {
			continue
		}
		targets = append(targets, s.fn)
	}
	h.mu.RUnlock()

	for _, fn := range targets {
		fn(c)
	}
}

// Subscribers returns the number of live subscriptions on key.
func (h *Hub) Subscribers(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[key])
}
