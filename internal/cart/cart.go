package cart

import (
	"encoding/json"
	"errors"
	"strings"
)

// StorageKey is the persisted slot name; shopper-scoped keys are built with
// session.SlotKey.
const StorageKey = "betashopCart"

var (
	ErrStaleRow    = errors.New("cart row no longer matches the current cart")
	ErrNotInCart   = errors.New("item not in cart")
	ErrInvalidItem = errors.New("invalid cart item")
)

// CartItem is one product line. Name is the identity of the product within
// the cart; there is no separate product ID.
type CartItem struct {
	Name     string `json:"name"`
	Price    int    `json:"price"`
	Image    string `json:"image"`
	Quantity int    `json:"quantity"`
}

func (i CartItem) LineTotal() int {
	return i.Price * i.Quantity
}

// Subtotal is the sum of price*quantity over all items.
func Subtotal(items []CartItem) int {
	total := 0
	for _, it := range items {
		total += it.LineTotal()
	}
	return total
}

// ItemCount is the sum of quantities, not the number of lines.
func ItemCount(items []CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

// Decode parses a persisted cart. Absent, blank or malformed input yields an
// empty cart. Entries that break the cart invariants (non-positive quantity,
// blank name, negative price, repeated name) are dropped.
func Decode(raw string) []CartItem {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []CartItem{}
	}
	var parsed []CartItem
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return []CartItem{}
	}
	out := make([]CartItem, 0, len(parsed))
	seen := make(map[string]struct{}, len(parsed))
	for _, it := range parsed {
		if it.Name == "" || it.Price < 0 || it.Quantity <= 0 {
			continue
		}
		if _, dup := seen[it.Name]; dup {
			continue
		}
		seen[it.Name] = struct{}{}
		out = append(out, it)
	}
	return out
}

// Encode serializes items as a JSON array; an empty cart encodes as "[]".
func Encode(items []CartItem) (string, error) {
	if items == nil {
		items = []CartItem{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
