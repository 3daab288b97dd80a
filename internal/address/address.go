package address

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Option is one entry of a select box.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Province is a top-level region and its districts, in display order.
type Province struct {
	Key       string   `json:"key"`
	Name      string   `json:"name"`
	Districts []string `json:"districts,omitempty"`
}

// DefaultProvinces is the shipping region table.
var DefaultProvinces = []Province{
	{Key: "hanoi", Name: "Hà Nội", Districts: []string{"Ba Đình", "Hoàn Kiếm", "Hai Bà Trưng", "Đống Đa", "Tây Hồ", "Cầu Giấy", "Thanh Xuân"}},
	{Key: "hcm", Name: "TP. Hồ Chí Minh", Districts: []string{"Quận 1", "Quận 3", "Quận 5", "Quận 7", "Quận 10", "Bình Thạnh", "Phú Nhuận"}},
	{Key: "hue", Name: "Thừa Thiên Huế", Districts: []string{"Thành phố Huế", "Hương Thủy", "Hương Trà", "Phong Điền", "Quảng Điền"}},
	{Key: "danang", Name: "Đà Nẵng", Districts: []string{"Hải Châu", "Thanh Khê", "Sơn Trà", "Ngũ Hành Sơn", "Liên Chiểu"}},
}

// OptionValue derives the select value of a district label:
// "Hai Bà Trưng" becomes "hai-bà-trưng".
func OptionValue(label string) string {
	lower := cases.Lower(language.Vietnamese).String(label)
	return strings.Join(strings.Fields(lower), "-")
}

// DistrictOptions renders the districts of p as select options.
func DistrictOptions(p Province) []Option {
	out := make([]Option, 0, len(p.Districts))
	for _, d := range p.Districts {
		out = append(out, Option{Value: OptionValue(d), Label: d})
	}
	return out
}
