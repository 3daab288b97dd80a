package catalog

import (
	"net/url"
	"testing"
)

func names(ps []Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func intp(v int) *int { return &v }

func TestFilter_AllEmptySearchNoBounds(t *testing.T) {
	got := Filter(DefaultProducts, CategoryAll, "", PriceFilter{})
	if len(got) != len(DefaultProducts) {
		t.Fatalf("expected %d products, got %d", len(DefaultProducts), len(got))
	}
}

func TestFilter_PriceRangeInclusive(t *testing.T) {
	products := []Product{
		{Name: "p50", Price: 50000},
		{Name: "p100", Price: 100000},
		{Name: "p300", Price: 300000},
		{Name: "p600", Price: 600000},
	}
	got := Filter(products, CategoryAll, "", PriceFilter{Min: intp(100000), Max: intp(500000)})
	if len(got) != 2 || got[0].Name != "p100" || got[1].Name != "p300" {
		t.Fatalf("unexpected result %v", names(got))
	}
}

func TestFilter_CategoryAndSearch(t *testing.T) {
	tests := []struct {
		name     string
		category string
		search   string
		want     int
	}{
		{"category only", "phone", "", 3},
		{"search ignores case", CategoryAll, "IPHONE", 1},
		{"search vietnamese", CategoryAll, "SẠC", 1},
		{"category and search", "laptop", "samsung", 0},
		{"unknown category", "camera", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(DefaultProducts, tt.category, tt.search, PriceFilter{})
			if len(got) != tt.want {
				t.Fatalf("expected %d, got %d (%v)", tt.want, len(got), names(got))
			}
		})
	}
}

func TestParsePriceFilter(t *testing.T) {
	tests := []struct {
		name    string
		min     string
		max     string
		wantMin *int
		wantMax *int
		wantErr error
	}{
		{name: "both blank", min: "", max: ""},
		{name: "zero min is open", min: "0", max: "500000", wantMax: intp(500000)},
		{name: "grouped digits", min: "1.000.000", max: "2,000,000", wantMin: intp(1000000), wantMax: intp(2000000)},
		{name: "min only", min: "100000", max: "", wantMin: intp(100000)},
		{name: "min above max", min: "500", max: "100", wantErr: ErrPriceRange},
		{name: "letters", min: "abc", max: "", wantErr: ErrInvalidPrice},
		{name: "negative", min: "", max: "-5", wantErr: ErrInvalidPrice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pf, err := ParsePriceFilter(tt.min, tt.max)
			if tt.wantErr != nil {
				if err == nil || !isErr(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if !sameBound(pf.Min, tt.wantMin) || !sameBound(pf.Max, tt.wantMax) {
				t.Fatalf("unexpected filter %+v", pf)
			}
		})
	}
}

func TestParsePriceFilter_RangeMessage(t *testing.T) {
	_, err := ParsePriceFilter("2000", "1000")
	if err == nil || err.Error() != "Giá tối thiểu không thể lớn hơn giá tối đa!" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestSort(t *testing.T) {
	products := []Product{
		{Name: "a", Price: 300, Position: 0},
		{Name: "b", Price: 100, Position: 1},
		{Name: "c", Price: 300, Position: 2},
		{Name: "d", Price: 200, Position: 3},
	}
	asc := Sort(products, SortPriceAsc)
	if got := names(asc); got[0] != "b" || got[1] != "d" || got[2] != "a" || got[3] != "c" {
		t.Fatalf("unexpected ascending order %v", got)
	}
	desc := Sort(products, SortPriceDesc)
	if got := names(desc); got[0] != "a" || got[1] != "c" || got[2] != "d" || got[3] != "b" {
		t.Fatalf("unexpected descending order %v", got)
	}
	back := Sort(desc, SortDefault)
	for i, p := range back {
		if p.Position != i {
			t.Fatalf("default sort did not restore catalog order: %v", names(back))
		}
	}
	if products[0].Name != "a" {
		t.Fatalf("Sort modified its input")
	}
}

func TestStateQueryRoundTrip(t *testing.T) {
	st := State{Category: "phone", Search: "galaxy a", Price: PriceFilter{Min: intp(1000), Max: intp(9000000)}, Sort: SortPriceDesc}
	q, err := url.ParseQuery(st.Query())
	if err != nil {
		t.Fatalf("query did not parse: %v", err)
	}
	back := StateFromQuery(q)
	if back.Query() != st.Query() {
		t.Fatalf("round trip mismatch: %q vs %q", back.Query(), st.Query())
	}
	if back.Category != "phone" || back.Search != "galaxy a" || *back.Price.Min != 1000 || *back.Price.Max != 9000000 || back.Sort != SortPriceDesc {
		t.Fatalf("unexpected state %+v", back)
	}
}

func TestStateFromQuery_Defaults(t *testing.T) {
	st := StateFromQuery(url.Values{"minPrice": {"900"}, "maxPrice": {"100"}, "sort": {"random"}})
	if st.Category != CategoryAll || !st.Price.IsZero() || st.Sort != SortDefault {
		t.Fatalf("unexpected state %+v", st)
	}
	if got := st.Query(); got != "filter=all" {
		t.Fatalf("unexpected canonical query %q", got)
	}
}

func TestCategoryCounts(t *testing.T) {
	counts := CategoryCounts(DefaultProducts)
	if counts[CategoryAll] != len(DefaultProducts) || counts["laptop"] != 3 || counts["sale"] != 4 {
		t.Fatalf("unexpected counts %v", counts)
	}
}

func TestMenuCounts(t *testing.T) {
	repo := NewInMemoryRepository(DefaultProducts)
	counts, err := MenuCounts(repo)()
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts["phone"] != 3 || counts["tablet"] != 2 || counts[CategoryAll] != len(DefaultProducts) {
		t.Fatalf("unexpected counts %v", counts)
	}

	_ = repo.Reset(DefaultProducts[:1])
	counts, _ = MenuCounts(repo)()
	if counts[CategoryAll] != 1 || counts["phone"] != 0 {
		t.Fatalf("counts must follow the repository, got %v", counts)
	}
}

func sameBound(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
