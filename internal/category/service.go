package category

// Service provides the category menu.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// List returns up to `limit` category items.
func (s *Service) List(limit int) []CategoryItem {
	items, err := s.repo.List(limit)
	if err != nil {
		return []CategoryItem{}
	}
	return items
}

// Menu marks the active key and fills per-key product counts. An unknown
// active key leaves every entry inactive.
func (s *Service) Menu(active string, counts map[string]int) []CategoryItem {
	items := s.List(100)
	for i := range items {
		items[i].Active = items[i].Key == active
		items[i].Count = counts[items[i].Key]
	}
	return items
}
