package address

// Service orchestrates region lookups.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Provinces() ([]Option, error) {
	all, err := s.repo.Provinces()
	if err != nil {
		return nil, err
	}
	out := make([]Option, 0, len(all))
	for _, p := range all {
		out = append(out, Option{Value: p.Key, Label: p.Name})
	}
	return out, nil
}

// Districts lists the district options of province. A blank province has
// no districts.
func (s *Service) Districts(province string) ([]Option, error) {
	if province == "" {
		return []Option{}, nil
	}
	p, err := s.repo.Province(province)
	if err != nil {
		return nil, err
	}
	return DistrictOptions(p), nil
}

// Selection is the province/district pair of one checkout form.
type Selection struct {
	service  *Service
	province string
	district string
	options  []Option
}

func (s *Service) NewSelection() *Selection {
	return &Selection{service: s, options: []Option{}}
}

// SelectProvince repopulates the district options and clears the district.
func (sel *Selection) SelectProvince(key string) error {
	opts, err := sel.service.Districts(key)
	if err != nil {
		return err
	}
	sel.province = key
	sel.district = ""
	sel.options = opts
	return nil
}

// SelectDistrict accepts an option value of the selected province; blank
// clears the optional district.
func (sel *Selection) SelectDistrict(value string) error {
	if value == "" {
		sel.district = ""
		return nil
	}
	for _, o := range sel.options {
		if o.Value == value {
			sel.district = value
			return nil
		}
	}
	return ErrUnknownDistrict
}

func (sel *Selection) Province() string  { return sel.province }
func (sel *Selection) District() string  { return sel.district }
func (sel *Selection) Options() []Option { return append([]Option(nil), sel.options...) }
