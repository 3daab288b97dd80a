package catalog

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/wichananm65/betashop/internal/feedback"
)

var (
	ErrInvalidPrice = errors.New("invalid price bound")
	ErrPriceRange   = errors.New("min price above max price")
)

const (
	SortDefault   = "default"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
)

// PriceFilter holds inclusive bounds; a nil bound is open.
type PriceFilter struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

func (f PriceFilter) IsZero() bool { return f.Min == nil && f.Max == nil }

func (f PriceFilter) Contains(price int) bool {
	if f.Min != nil && price < *f.Min {
		return false
	}
	if f.Max != nil && price > *f.Max {
		return false
	}
	return true
}

// ParsePriceFilter reads the two price inputs. Blank or zero bounds are open.
// Grouping separators are accepted ("1.000.000").
func ParsePriceFilter(minRaw, maxRaw string) (PriceFilter, error) {
	min, err := parseBound(minRaw)
	if err != nil {
		return PriceFilter{}, feedback.New(err, "Giá không hợp lệ!").WithField("minPrice")
	}
	max, err := parseBound(maxRaw)
	if err != nil {
		return PriceFilter{}, feedback.New(err, "Giá không hợp lệ!").WithField("maxPrice")
	}
	if min != nil && max != nil && *min > *max {
		return PriceFilter{}, feedback.New(ErrPriceRange, "Giá tối thiểu không thể lớn hơn giá tối đa!").WithField("minPrice")
	}
	return PriceFilter{Min: min, Max: max}, nil
}

func parseBound(raw string) (*int, error) {
	s := strings.Map(func(r rune) rune {
		switch r {
		case '.', ',', ' ', '\u00a0':
			return -1
		}
		return r
	}, strings.TrimSpace(raw))
	s = strings.TrimSuffix(strings.TrimSuffix(s, "đ"), "₫")
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return nil, ErrInvalidPrice
	}
	if v == 0 {
		return nil, nil
	}
	return &v, nil
}

// Filter keeps the products that match the category, contain search in their
// name (case-insensitive) and fall inside price.
func Filter(products []Product, category, search string, price PriceFilter) []Product {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(search))
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if !p.InCategory(category) {
			continue
		}
		if needle != "" && !strings.Contains(fold.String(p.Name), needle) {
			continue
		}
		if !price.Contains(p.Price) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Sort returns a reordered copy. Unknown keys behave like SortDefault.
func Sort(products []Product, key string) []Product {
	out := make([]Product, len(products))
	copy(out, products)
	switch key {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	}
	return out
}

func validSort(key string) bool {
	return key == SortDefault || key == SortPriceAsc || key == SortPriceDesc
}

// CategoryCounts counts products per category key, including CategoryAll.
func CategoryCounts(products []Product) map[string]int {
	counts := map[string]int{CategoryAll: len(products)}
	for _, p := range products {
		for _, c := range p.Categories {
			counts[c]++
		}
	}
	return counts
}
