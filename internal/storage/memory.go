package storage

import "sync"

// MemoryBackend is used for tests and single-instance deployments.
type MemoryBackend struct {
	mu    sync.RWMutex
	slots map[string]string
}

func NewMemoryBackend(seed map[string]string) *MemoryBackend {
	b := &MemoryBackend{slots: make(map[string]string, len(seed))}
	for k, v := range seed {
		b.slots[k] = v
	}
	return b
}

func (b *MemoryBackend) Get(key string) (string, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.slots[key]
	return v, ok, nil
}

func (b *MemoryBackend) Set(_ string, key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.slots[key] = value
	return nil
}

func (b *MemoryBackend) Remove(_ string, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.slots, key)
	return nil
}
