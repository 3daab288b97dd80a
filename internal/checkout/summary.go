package checkout

import (
	"fmt"

	"github.com/wichananm65/betashop/internal/cart"
	"github.com/wichananm65/betashop/internal/money"
)

const (
	FreeShippingThreshold = 3000000
	FlatShippingFee       = 30000
)

// ShippingFee is free from FreeShippingThreshold on, or when a free-shipping
// promo is active.
func ShippingFee(subtotal int, freeShipping bool) int {
	if freeShipping || subtotal >= FreeShippingThreshold {
		return 0
	}
	return FlatShippingFee
}

type Line struct {
	Name          string `json:"name"`
	Image         string `json:"image"`
	Price         int    `json:"price"`
	PriceText     string `json:"priceText"`
	Quantity      int    `json:"quantity"`
	QuantityText  string `json:"quantityText"`
	LineTotal     int    `json:"lineTotal"`
	LineTotalText string `json:"lineTotalText"`
}

type Summary struct {
	Lines        []Line `json:"items"`
	Empty        bool   `json:"empty"`
	EmptyMessage string `json:"emptyMessage,omitempty"`
	ItemCount    int    `json:"itemCount"`
	Subtotal     int    `json:"subtotal"`
	SubtotalText string `json:"subtotalText"`
	ShippingFee  int    `json:"shippingFee"`
	ShippingText string `json:"shippingText"`
	Discount     int    `json:"discount"`
	DiscountText string `json:"discountText"`
	Total        int    `json:"total"`
	TotalText    string `json:"totalText"`
	Promo        string `json:"promo,omitempty"`
	PromoLocked  bool   `json:"promoLocked"`
	Notice       string `json:"notice,omitempty"`
	Redirect     string `json:"redirect,omitempty"`
}

// Summarize computes the order summary of items. An empty cart totals 0
// with no shipping.
func Summarize(items []cart.CartItem, discount int, freeShipping bool) Summary {
	s := Summary{Lines: make([]Line, 0, len(items))}
	if len(items) == 0 {
		s.Empty = true
		s.EmptyMessage = "Giỏ hàng trống"
		s.SubtotalText = money.Format(0)
		s.ShippingText = money.Format(0)
		s.DiscountText = money.Format(0)
		s.TotalText = money.Format(0)
		return s
	}
	for _, it := range items {
		s.Lines = append(s.Lines, Line{
			Name:          it.Name,
			Image:         it.Image,
			Price:         it.Price,
			PriceText:     money.Format(it.Price),
			Quantity:      it.Quantity,
			QuantityText:  fmt.Sprintf("Số lượng: %d", it.Quantity),
			LineTotal:     it.LineTotal(),
			LineTotalText: money.Format(it.LineTotal()),
		})
	}
	s.ItemCount = cart.ItemCount(items)
	s.Subtotal = cart.Subtotal(items)
	s.ShippingFee = ShippingFee(s.Subtotal, freeShipping)
	s.Discount = discount
	s.Total = s.Subtotal + s.ShippingFee - s.Discount

	s.SubtotalText = money.Format(s.Subtotal)
	s.ShippingText = money.Format(s.ShippingFee)
	if s.ShippingFee == 0 {
		s.ShippingText = "Miễn phí"
	}
	s.DiscountText = money.Format(s.Discount)
	s.TotalText = money.Format(s.Total)
	return s
}
