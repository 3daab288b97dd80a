package storage

// Local is the Port used inside one process: writes go to the backend and
// are then announced on the hub.
type Local struct {
	backend Backend
	hub     *Hub
}

func NewLocal(backend Backend, hub *Hub) *Local {
	if hub == nil {
		hub = NewHub()
	}
	return &Local{backend: backend, hub: hub}
}

func (l *Local) Hub() *Hub { return l.hub }

func (l *Local) Load(key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	return l.backend.Get(key)
}

func (l *Local) Save(origin, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := l.backend.Set(origin, key, value); err != nil {
		return err
	}
	l.hub.Publish(Change{Key: key, Value: value, Origin: origin})
	return nil
}

func (l *Local) Remove(origin, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := l.backend.Remove(origin, key); err != nil {
		return err
	}
	l.hub.Publish(Change{Key: key, Removed: true, Origin: origin})
	return nil
}

func (l *Local) Subscribe(origin, key string, fn func(Change)) func() {
	return l.hub.Subscribe(origin, key, fn)
}
