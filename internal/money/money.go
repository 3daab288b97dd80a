package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Vietnamese)

// Format renders a VND amount with Vietnamese digit grouping, e.g. 100.000đ.
func Format(amount int) string {
	if amount == 0 {
		return "0đ"
	}
	return printer.Sprintf("%dđ", amount)
}
