package catalog

import (
	"net/url"
	"strconv"
	"strings"
)

// State is the part of the listing that lives in the URL.
type State struct {
	Category string
	Search   string
	Price    PriceFilter
	Sort     string
}

func DefaultState() State {
	return State{Category: CategoryAll, Sort: SortDefault}
}

// StateFromQuery restores listing state from URL parameters. An invalid
// price pair or unknown sort key is ignored.
func StateFromQuery(q url.Values) State {
	st := DefaultState()
	if f := strings.TrimSpace(q.Get("filter")); f != "" {
		st.Category = f
	}
	st.Search = strings.TrimSpace(q.Get("search"))
	if pf, err := ParsePriceFilter(q.Get("minPrice"), q.Get("maxPrice")); err == nil {
		st.Price = pf
	}
	if s := q.Get("sort"); validSort(s) {
		st.Sort = s
	}
	return st
}

// Query is the canonical encoding of st: filter is always present, the rest
// only when set.
func (st State) Query() string {
	q := url.Values{}
	cat := st.Category
	if cat == "" {
		cat = CategoryAll
	}
	q.Set("filter", cat)
	if st.Search != "" {
		q.Set("search", st.Search)
	}
	if st.Price.Min != nil {
		q.Set("minPrice", strconv.Itoa(*st.Price.Min))
	}
	if st.Price.Max != nil {
		q.Set("maxPrice", strconv.Itoa(*st.Price.Max))
	}
	if st.Sort != "" && st.Sort != SortDefault {
		q.Set("sort", st.Sort)
	}
	return q.Encode()
}
