package category

// Repository provides access to category rows.
type Repository interface {
	List(limit int) ([]CategoryItem, error)
}

// InMemoryRepository serves a fixed menu.
type InMemoryRepository struct {
	items []CategoryItem
}

func NewInMemoryRepository(items []CategoryItem) *InMemoryRepository {
	if items == nil {
		items = DefaultMenu
	}
	return &InMemoryRepository{items: items}
}

func (r *InMemoryRepository) List(limit int) ([]CategoryItem, error) {
	n := len(r.items)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]CategoryItem, n)
	copy(out, r.items[:n])
	return out, nil
}
