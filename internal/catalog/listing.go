package catalog

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/wichananm65/betashop/internal/cart"
	"github.com/wichananm65/betashop/internal/category"
	"github.com/wichananm65/betashop/internal/feedback"
	"github.com/wichananm65/betashop/internal/money"
)

var ErrUnknownEvent = errors.New("unknown listing event")

// Event is one shopper interaction on the listing page.
type Event struct {
	Kind     string `json:"kind"`
	Category string `json:"category"`
	Search   string `json:"search"`
	MinPrice string `json:"minPrice"`
	MaxPrice string `json:"maxPrice"`
	Sort     string `json:"sort"`
	Name     string `json:"name"`
}

type eventHandler func(l *Listing, ev Event) error

var listingEvents = map[string]eventHandler{
	"category":    (*Listing).selectCategory,
	"search":      (*Listing).search,
	"price":       (*Listing).applyPrice,
	"clear-price": (*Listing).clearPrice,
	"sort":        (*Listing).sortBy,
	"home":        (*Listing).home,
	"add":         (*Listing).addToCart,
	"increase":    (*Listing).increase,
	"decrease":    (*Listing).decrease,
}

// Listing is the storefront page of one shopper.
type Listing struct {
	catalog []Product
	store   *cart.Store
	menu    *category.Service
	state   State
	added   string
	log     *zap.Logger
}

func NewListing(products []Product, store *cart.Store, menu *category.Service, st State, log *zap.Logger) *Listing {
	if log == nil {
		log = zap.NewNop()
	}
	return &Listing{catalog: Sort(products, SortDefault), store: store, menu: menu, state: st, log: log}
}

func (l *Listing) State() State { return l.state }

// Dispatch applies ev. A rejected event leaves the state unchanged.
func (l *Listing) Dispatch(ev Event) error {
	h, ok := listingEvents[ev.Kind]
	if !ok {
		return feedback.New(ErrUnknownEvent, fmt.Sprintf("unknown event %q", ev.Kind))
	}
	if err := h(l, ev); err != nil {
		l.log.Debug("listing event rejected", zap.String("kind", ev.Kind), zap.Error(err))
		return err
	}
	return nil
}

func (l *Listing) selectCategory(ev Event) error {
	l.state.Category = strings.TrimSpace(ev.Category)
	if l.state.Category == "" {
		l.state.Category = CategoryAll
	}
	l.state.Search = ""
	return nil
}

func (l *Listing) search(ev Event) error {
	l.state.Search = strings.TrimSpace(ev.Search)
	return nil
}

func (l *Listing) applyPrice(ev Event) error {
	pf, err := ParsePriceFilter(ev.MinPrice, ev.MaxPrice)
	if err != nil {
		return err
	}
	l.state.Price = pf
	return nil
}

func (l *Listing) clearPrice(Event) error {
	l.state.Price = PriceFilter{}
	return nil
}

func (l *Listing) sortBy(ev Event) error {
	l.state.Sort = SortDefault
	if validSort(ev.Sort) {
		l.state.Sort = ev.Sort
	}
	return nil
}

// home resets the listing to every product.
func (l *Listing) home(Event) error {
	l.state = DefaultState()
	return nil
}

func (l *Listing) addToCart(ev Event) error {
	p, err := FindByName(l.catalog, ev.Name)
	if err != nil {
		return err
	}
	if _, err := l.store.AddItem(p.Name, p.Price, p.Image); err != nil {
		return err
	}
	l.added = fmt.Sprintf("✓ Bạn đã thêm (%s) vào giỏ hàng", p.Name)
	return nil
}

func (l *Listing) increase(ev Event) error {
	return l.store.Increment(ev.Name)
}

func (l *Listing) decrease(ev Event) error {
	return l.store.Decrement(ev.Name)
}

type ProductCard struct {
	Product
	PriceText string `json:"priceText"`
}

type DropdownLine struct {
	Name      string `json:"name"`
	Image     string `json:"image"`
	Price     int    `json:"price"`
	PriceText string `json:"priceText"`
	Quantity  int    `json:"quantity"`
}

// CartSummary is the header badge plus dropdown.
type CartSummary struct {
	Count        int            `json:"count"`
	Badge        string         `json:"badge,omitempty"`
	ShowBadge    bool           `json:"showBadge"`
	Label        string         `json:"label"`
	Lines        []DropdownLine `json:"lines"`
	Empty        string         `json:"empty,omitempty"`
	Subtotal     int            `json:"subtotal"`
	SubtotalText string         `json:"subtotalText"`
}

type View struct {
	Products      []ProductCard           `json:"products"`
	VisibleCount  int                     `json:"visibleCount"`
	SearchMessage string                  `json:"searchMessage,omitempty"`
	PriceMessage  string                  `json:"priceMessage,omitempty"`
	Categories    []category.CategoryItem `json:"categories"`
	Sort          string                  `json:"sort"`
	Cart          CartSummary             `json:"cart"`
	AddedMessage  string                  `json:"addedMessage,omitempty"`
	Query         string                  `json:"query"`
}

func (l *Listing) View() View {
	visible := Filter(Sort(l.catalog, l.state.Sort), l.state.Category, l.state.Search, l.state.Price)
	cards := make([]ProductCard, 0, len(visible))
	for _, p := range visible {
		cards = append(cards, ProductCard{Product: p, PriceText: money.Format(p.Price)})
	}
	v := View{
		Products:      cards,
		VisibleCount:  len(visible),
		SearchMessage: SearchMessage(l.state.Search, len(visible)),
		PriceMessage:  PriceMessage(l.state.Price),
		Categories:    []category.CategoryItem{},
		Sort:          l.state.Sort,
		AddedMessage:  l.added,
		Query:         l.state.Query(),
	}
	if l.menu != nil {
		v.Categories = l.menu.Menu(l.state.Category, CategoryCounts(l.catalog))
	}
	var items []cart.CartItem
	if l.store != nil {
		items = l.store.Items()
	}
	v.Cart = RenderCartSummary(items)
	return v
}

func SearchMessage(search string, visible int) string {
	if search == "" {
		return ""
	}
	if visible == 0 {
		return fmt.Sprintf("Không tìm thấy sản phẩm phù hợp với \"%s\"", search)
	}
	return fmt.Sprintf("Tìm thấy %d sản phẩm cho \"%s\"", visible, search)
}

func PriceMessage(f PriceFilter) string {
	const prefix = "Đang lọc sản phẩm theo giá: "
	switch {
	case f.Min != nil && f.Max != nil:
		return prefix + money.Format(*f.Min) + " - " + money.Format(*f.Max)
	case f.Min != nil:
		return prefix + "Từ " + money.Format(*f.Min)
	case f.Max != nil:
		return prefix + "Đến " + money.Format(*f.Max)
	}
	return ""
}

func RenderCartSummary(items []cart.CartItem) CartSummary {
	count := cart.ItemCount(items)
	subtotal := cart.Subtotal(items)
	s := CartSummary{
		Count:        count,
		ShowBadge:    count > 0,
		Label:        fmt.Sprintf("(%d) sản phẩm", count),
		Lines:        make([]DropdownLine, 0, len(items)),
		Subtotal:     subtotal,
		SubtotalText: money.Format(subtotal),
	}
	if count > 0 {
		s.Badge = fmt.Sprintf("(%d)", count)
	}
	if len(items) == 0 {
		s.Empty = "Giỏ hàng trống"
	}
	for _, it := range items {
		s.Lines = append(s.Lines, DropdownLine{
			Name:      it.Name,
			Image:     it.Image,
			Price:     it.Price,
			PriceText: money.Format(it.Price),
			Quantity:  it.Quantity,
		})
	}
	return s
}
