package order

import (
	"strconv"
	"time"

	"github.com/wichananm65/betashop/internal/cart"
)

// Order is the confirmation of a placed checkout. It only lives as long as
// the confirmation it is shown in.
type Order struct {
	OrderID     string          `json:"orderId"`
	Items       []cart.CartItem `json:"items"`
	ItemCount   int             `json:"itemCount"`
	Subtotal    int             `json:"subtotal"`
	ShippingFee int             `json:"shippingFee"`
	Discount    int             `json:"discount"`
	Total       int             `json:"total"`
	CreatedAt   string          `json:"createdAt"`
}

// NewID is "BS" followed by the last 8 digits of the Unix millisecond clock.
func NewID(now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) > 8 {
		ms = ms[len(ms)-8:]
	}
	return "BS" + ms
}

// New builds the order for items at now.
func New(items []cart.CartItem, shippingFee, discount int, now time.Time) Order {
	subtotal := cart.Subtotal(items)
	return Order{
		OrderID:     NewID(now),
		Items:       append([]cart.CartItem(nil), items...),
		ItemCount:   cart.ItemCount(items),
		Subtotal:    subtotal,
		ShippingFee: shippingFee,
		Discount:    discount,
		Total:       subtotal + shippingFee - discount,
		CreatedAt:   now.UTC().Format(time.RFC3339),
	}
}
