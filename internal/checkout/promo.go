package checkout

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/wichananm65/betashop/internal/feedback"
)

type PromoKind string

const (
	PromoPercent  PromoKind = "percent"
	PromoFixed    PromoKind = "fixed"
	PromoShipping PromoKind = "shipping"
)

var (
	ErrPromoRequired = errors.New("promo code required")
	ErrPromoInvalid  = errors.New("promo code unknown")
	ErrPromoLocked   = errors.New("promo already applied")
)

type Promo struct {
	Code        string    `json:"code"`
	Kind        PromoKind `json:"kind"`
	Value       int       `json:"value"`
	Description string    `json:"description"`
}

// Promos has no expiry or usage limit; the only limit is one code per
// checkout session.
var Promos = map[string]Promo{
	"GIAM10":      {Code: "GIAM10", Kind: PromoPercent, Value: 10, Description: "Giảm 10%"},
	"GIAM50K":     {Code: "GIAM50K", Kind: PromoFixed, Value: 50000, Description: "Giảm 50,000đ"},
	"FREESHIP":    {Code: "FREESHIP", Kind: PromoShipping, Description: "Miễn phí vận chuyển"},
	"NEWCUSTOMER": {Code: "NEWCUSTOMER", Kind: PromoPercent, Value: 15, Description: "Giảm 15% cho khách hàng mới"},
}

// NormalizeCode trims and upper-cases a typed code.
func NormalizeCode(raw string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(raw))
}

// LookupPromo resolves a typed code.
func LookupPromo(raw string) (Promo, error) {
	code := NormalizeCode(raw)
	if code == "" {
		return Promo{}, feedback.New(ErrPromoRequired, "Vui lòng nhập mã giảm giá").WithField("promoCode")
	}
	p, ok := Promos[code]
	if !ok {
		return Promo{}, feedback.New(ErrPromoInvalid, "Mã giảm giá không hợp lệ hoặc đã hết hạn").WithField("promoCode")
	}
	return p, nil
}

// Discount is what p takes off subtotal. Percent codes round down.
func (p Promo) Discount(subtotal int) int {
	switch p.Kind {
	case PromoPercent:
		return subtotal * p.Value / 100
	case PromoFixed:
		return p.Value
	}
	return 0
}

func (p Promo) SuccessMessage() string {
	return "Áp dụng mã giảm giá thành công: " + p.Description
}
