// Package cartpage is the editable cart table: one row per line, quantity
// controls addressed by row index, and the checkout gate.
package cartpage

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wichananm65/betashop/internal/cart"
	"github.com/wichananm65/betashop/internal/feedback"
	"github.com/wichananm65/betashop/internal/money"
)

const (
	RemovePrompt = "Bạn có chắc chắn muốn xóa sản phẩm này khỏi giỏ hàng?"
	EmptyLabel   = "Giỏ hàng trống"
	CheckoutPath = "/checkout"
)

var (
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrUnknownCommand       = errors.New("unknown cart command")
)

type Row struct {
	Index         int    `json:"index"`
	Name          string `json:"name"`
	Image         string `json:"image"`
	Price         int    `json:"price"`
	PriceText     string `json:"priceText"`
	Quantity      int    `json:"quantity"`
	LineTotal     int    `json:"lineTotal"`
	LineTotalText string `json:"lineTotalText"`
}

type View struct {
	Rows         []Row  `json:"rows"`
	Empty        bool   `json:"empty"`
	EmptyMessage string `json:"emptyMessage,omitempty"`
	Subtotal     int    `json:"subtotal"`
	SubtotalText string `json:"subtotalText"`
	CountLabel   string `json:"countLabel"`
}

// Render is the cart page view of items.
func Render(items []cart.CartItem) View {
	count := cart.ItemCount(items)
	v := View{
		Rows:       make([]Row, 0, len(items)),
		CountLabel: fmt.Sprintf("(%d) sản phẩm", count),
	}
	if len(items) == 0 {
		v.Empty = true
		v.EmptyMessage = EmptyLabel
		v.SubtotalText = money.Format(0)
		return v
	}
	for i, it := range items {
		v.Rows = append(v.Rows, Row{
			Index:         i,
			Name:          it.Name,
			Image:         it.Image,
			Price:         it.Price,
			PriceText:     money.Format(it.Price),
			Quantity:      it.Quantity,
			LineTotal:     it.LineTotal(),
			LineTotalText: money.Format(it.LineTotal()),
		})
	}
	v.Subtotal = cart.Subtotal(items)
	v.SubtotalText = money.Format(v.Subtotal)
	return v
}

// Command is one row control. Index is the row as rendered; Name, when
// given, must still be the line at that index.
type Command struct {
	Kind    string `json:"kind"`
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Value   string `json:"value"`
	Confirm bool   `json:"confirm"`
}

// Confirmer answers the removal prompt.
type Confirmer interface {
	Confirm(prompt string) bool
}

type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

var (
	Approve = ConfirmFunc(func(string) bool { return true })
	Decline = ConfirmFunc(func(string) bool { return false })
)

type commandHandler func(c *Controller, row cart.CartItem, cmd Command, confirm Confirmer) error

var commands = map[string]commandHandler{
	"increase": (*Controller).increase,
	"decrease": (*Controller).decrease,
	"set":      (*Controller).set,
	"delete":   (*Controller).remove,
}

type Controller struct {
	store *cart.Store
	log   *zap.Logger
}

func NewController(store *cart.Store, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{store: store, log: log}
}

func (c *Controller) View() View { return Render(c.store.Items()) }

// Dispatch re-validates the addressed row against the current cart and
// applies cmd. Removals go through confirm first.
func (c *Controller) Dispatch(cmd Command, confirm Confirmer) error {
	h, ok := commands[cmd.Kind]
	if !ok {
		return feedback.New(ErrUnknownCommand, fmt.Sprintf("unknown command %q", cmd.Kind))
	}
	if confirm == nil {
		confirm = Decline
	}
	row, err := c.store.ItemAt(cmd.Index, cmd.Name)
	if err != nil {
		c.log.Debug("stale cart row", zap.Int("index", cmd.Index), zap.String("name", cmd.Name))
		return err
	}
	return h(c, row, cmd, confirm)
}

func (c *Controller) increase(row cart.CartItem, cmd Command, _ Confirmer) error {
	return c.store.SetQuantity(cmd.Index, row.Quantity+1)
}

func (c *Controller) decrease(row cart.CartItem, cmd Command, confirm Confirmer) error {
	return c.setQuantity(cmd.Index, row.Quantity-1, confirm)
}

func (c *Controller) set(_ cart.CartItem, cmd Command, confirm Confirmer) error {
	return c.setQuantity(cmd.Index, ParseQuantity(cmd.Value), confirm)
}

func (c *Controller) remove(_ cart.CartItem, cmd Command, confirm Confirmer) error {
	return c.setQuantity(cmd.Index, 0, confirm)
}

func (c *Controller) setQuantity(index, qty int, confirm Confirmer) error {
	if qty <= 0 && !confirm.Confirm(RemovePrompt) {
		return feedback.New(ErrConfirmationRequired, RemovePrompt)
	}
	return c.store.SetQuantity(index, qty)
}

// Checkout returns where to go next, or a rejection when the cart is empty.
func (c *Controller) Checkout() (string, error) {
	if c.store.IsEmpty() {
		return "", feedback.New(ErrEmptyCart, "Giỏ hàng của bạn đang trống!")
	}
	return CheckoutPath, nil
}

// ParseQuantity reads a typed quantity the way a number input does: leading
// digits are used, and a blank, unreadable or zero value becomes 1.
// Negative values are kept so that they go through the removal prompt.
func ParseQuantity(raw string) int {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 1
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil || v == 0 {
		return 1
	}
	return v
}
