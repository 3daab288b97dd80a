package address

import "errors"

var (
	ErrUnknownProvince = errors.New("unknown province")
	ErrUnknownDistrict = errors.New("unknown district")
)

type Repository interface {
	Provinces() ([]Province, error)
	Province(key string) (Province, error)
}

// InMemoryRepository serves a fixed region table.
type InMemoryRepository struct {
	data []Province
}

func NewInMemoryRepository(seed []Province) *InMemoryRepository {
	if seed == nil {
		seed = DefaultProvinces
	}
	return &InMemoryRepository{data: seed}
}

func (r *InMemoryRepository) Provinces() ([]Province, error) {
	out := make([]Province, len(r.data))
	copy(out, r.data)
	return out, nil
}

func (r *InMemoryRepository) Province(key string) (Province, error) {
	for _, p := range r.data {
		if p.Key == key {
			return p, nil
		}
	}
	return Province{}, ErrUnknownProvince
}
