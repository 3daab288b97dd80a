package catalog

import (
	"errors"
	"sync"

	"github.com/wichananm65/betashop/internal/category"
)

var (
	ErrNotFound = errors.New("product not found")
)

type Repository interface {
	List() ([]Product, error)
	// Reset replaces all products with the provided list (used for dev / seeding)
	Reset(products []Product) error
}

// InMemoryRepository is a simple in-memory implementation useful for tests and
// single-instance runs.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []Product
}

func NewInMemoryRepository(seed []Product) *InMemoryRepository {
	r := &InMemoryRepository{}
	_ = r.Reset(seed)
	return r
}

// List returns the products in catalog order.
func (r *InMemoryRepository) List() ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Product, len(r.storage))
	copy(out, r.storage)
	return out, nil
}

// Reset replaces the whole in-memory storage; positions follow slice order.
func (r *InMemoryRepository) Reset(products []Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage = make([]Product, 0, len(products))
	for i, p := range products {
		p.Position = i
		p.Categories = append([]string(nil), p.Categories...)
		r.storage = append(r.storage, p)
	}
	return nil
}

// MenuCounts feeds the public category menu with live per-category counts.
func MenuCounts(repo Repository) category.Counter {
	return func() (map[string]int, error) {
		products, err := repo.List()
		if err != nil {
			return nil, err
		}
		return CategoryCounts(products), nil
	}
}

// FindByName looks a product up by its exact name.
func FindByName(products []Product, name string) (Product, error) {
	for _, p := range products {
		if p.Name == name {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}
