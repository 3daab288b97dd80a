package cart

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wichananm65/betashop/internal/storage"
)

// Store owns the in-memory copy of one page context's cart. Every mutation
// is written back to the port before the call returns; the persisted value
// is the source of truth across contexts.
type Store struct {
	mu      sync.Mutex
	port    storage.Port
	key     string
	origin  string
	items   []CartItem
	log     *zap.Logger
	cancels []func()
}

// NewStore creates a store for key and loads the persisted cart.
func NewStore(port storage.Port, key string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{
		port:   port,
		key:    key,
		origin: uuid.NewString(),
		items:  []CartItem{},
		log:    log,
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Key() string    { return s.key }
func (s *Store) Origin() string { return s.origin }

// Load replaces the in-memory cart with the persisted one. A missing or
// unparsable value is an empty cart, not an error.
func (s *Store) Load() error {
	raw, ok, err := s.port.Load(s.key)
	if err != nil {
		return err
	}
	items := []CartItem{}
	if ok {
		items = Decode(raw)
		if len(items) == 0 && raw != "[]" {
			s.log.Debug("persisted cart empty or unreadable", zap.String("key", s.key))
		}
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// save must be called with s.mu held.
func (s *Store) save() error {
	raw, err := Encode(s.items)
	if err != nil {
		return err
	}
	return s.port.Save(s.origin, s.key, raw)
}

func (s *Store) indexOf(name string) int {
	for i, it := range s.items {
		if it.Name == name {
			return i
		}
	}
	return -1
}

// AddItem increments the quantity of an existing line with the same name or
// appends a new line with quantity 1.
func (s *Store) AddItem(name string, price int, image string) (CartItem, error) {
	if name == "" || price < 0 {
		return CartItem{}, ErrInvalidItem
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(name); i >= 0 {
		s.items[i].Quantity++
		return s.items[i], s.save()
	}
	it := CartItem{Name: name, Price: price, Image: image, Quantity: 1}
	s.items = append(s.items, it)
	return it, s.save()
}

// ItemAt re-validates a positional reference against the current sequence.
// A non-empty name must match the line at index.
func (s *Store) ItemAt(index int, name string) (CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRow(index, name); err != nil {
		return CartItem{}, err
	}
	return s.items[index], nil
}

func (s *Store) checkRow(index int, name string) error {
	if index < 0 || index >= len(s.items) {
		return ErrStaleRow
	}
	if name != "" && s.items[index].Name != name {
		return ErrStaleRow
	}
	return nil
}

// SetQuantity sets the quantity at index; qty <= 0 removes the line.
func (s *Store) SetQuantity(index, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRow(index, ""); err != nil {
		return err
	}
	if qty <= 0 {
		s.items = append(s.items[:index], s.items[index+1:]...)
	} else {
		s.items[index].Quantity = qty
	}
	return s.save()
}

func (s *Store) RemoveAt(index int) error {
	return s.SetQuantity(index, 0)
}

func (s *Store) RemoveByName(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(name)
	if i < 0 {
		return ErrNotInCart
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return s.save()
}

// Increment and Decrement address a line by name.
func (s *Store) Increment(name string) error {
	return s.adjust(name, 1)
}

func (s *Store) Decrement(name string) error {
	return s.adjust(name, -1)
}

func (s *Store) adjust(name string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(name)
	if i < 0 {
		return ErrNotInCart
	}
	q := s.items[i].Quantity + delta
	if q <= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
	} else {
		s.items[i].Quantity = q
	}
	return s.save()
}

// Clear empties the cart and deletes the persisted slot.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = []CartItem{}
	return s.port.Remove(s.origin, s.key)
}

func (s *Store) Items() []CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CartItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) IsEmpty() bool { return s.Len() == 0 }

func (s *Store) Subtotal() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Subtotal(s.items)
}

func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ItemCount(s.items)
}

// Watch reloads the whole cart from every external change of the key and
// then calls fn with the new items. Local state is discarded, never merged.
func (s *Store) Watch(fn func(items []CartItem)) (cancel func()) {
	cancel = s.port.Subscribe(s.origin, s.key, func(c storage.Change) {
		items := []CartItem{}
		if !c.Removed {
			items = Decode(c.Value)
		}
		s.mu.Lock()
		s.items = items
		s.mu.Unlock()
		s.log.Debug("cart reloaded after external change", zap.String("key", s.key), zap.String("origin", c.Origin))
		if fn != nil {
			out := make([]CartItem, len(items))
			copy(out, items)
			fn(out)
		}
	})
	s.mu.Lock()
	s.cancels = append(s.cancels, cancel)
	s.mu.Unlock()
	return cancel
}

// Close drops every subscription created by Watch.
func (s *Store) Close() {
	s.mu.Lock()
	cancels := s.cancels
	s.cancels = nil
	s.mu.Unlock()
	for _, c := range cancels {
		c()
	}
}
