package checkout

import (
	"errors"
	"regexp"
	"strings"

	"github.com/wichananm65/betashop/internal/feedback"
)

var ErrInvalidForm = errors.New("invalid checkout form")

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[0-9]{9,11}$`)
)

// Form is the contact and delivery form. District, Address and Note are
// optional.
type Form struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Province string `json:"province"`
	District string `json:"district"`
	Address  string `json:"address"`
	Note     string `json:"note"`
}

func (f Form) trimmed() Form {
	f.Email = strings.TrimSpace(f.Email)
	f.FullName = strings.TrimSpace(f.FullName)
	f.Phone = strings.TrimSpace(f.Phone)
	return f
}

type rule struct {
	field   string
	message string
	ok      func(f Form) bool
}

// rules run in order; the first failure wins.
var rules = []rule{
	{"email", "Vui lòng nhập email", func(f Form) bool { return f.Email != "" }},
	{"email", "Email không hợp lệ", func(f Form) bool { return emailPattern.MatchString(f.Email) }},
	{"fullName", "Vui lòng nhập họ và tên", func(f Form) bool { return f.FullName != "" }},
	{"phone", "Vui lòng nhập số điện thoại", func(f Form) bool { return f.Phone != "" }},
	{"phone", "Số điện thoại không hợp lệ", func(f Form) bool { return phonePattern.MatchString(stripSpace(f.Phone)) }},
	{"province", "Vui lòng chọn tỉnh thành", func(f Form) bool { return f.Province != "" }},
}

// Validate reports the first failing rule as a feedback error naming the field.
func Validate(f Form) error {
	f = f.trimmed()
	for _, r := range rules {
		if !r.ok(f) {
			return feedback.New(ErrInvalidForm, r.message).WithField(r.field)
		}
	}
	return nil
}

func stripSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
