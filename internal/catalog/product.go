package catalog

// Product is one card of the storefront listing. Name doubles as the cart
// identity of the product. Position is the original catalog order and is
// what the "default" sort restores.
type Product struct {
	Name       string   `json:"productName"`
	Price      int      `json:"productPrice"`
	Image      string   `json:"productImg"`
	Categories []string `json:"categories"`
	Position   int      `json:"-"`
}

// InCategory reports whether p belongs to key; category.All matches everything.
func (p Product) InCategory(key string) bool {
	if key == "" || key == CategoryAll {
		return true
	}
	for _, c := range p.Categories {
		if c == key {
			return true
		}
	}
	return false
}

const CategoryAll = "all"

// DefaultProducts is the storefront catalog used when no database is configured.
var DefaultProducts = []Product{
	{Name: "Laptop Dell Inspiron 15", Price: 15990000, Image: "/images/dell-inspiron-15.jpg", Categories: []string{"laptop"}},
	{Name: "Laptop Asus Vivobook 14", Price: 12490000, Image: "/images/asus-vivobook-14.jpg", Categories: []string{"laptop", "sale"}},
	{Name: "MacBook Air M2", Price: 24990000, Image: "/images/macbook-air-m2.jpg", Categories: []string{"laptop"}},
	{Name: "iPhone 15 128GB", Price: 19990000, Image: "/images/iphone-15.jpg", Categories: []string{"phone"}},
	{Name: "Samsung Galaxy A55", Price: 9490000, Image: "/images/galaxy-a55.jpg", Categories: []string{"phone", "sale"}},
	{Name: "Xiaomi Redmi Note 13", Price: 4890000, Image: "/images/redmi-note-13.jpg", Categories: []string{"phone"}},
	{Name: "iPad Gen 10 WiFi", Price: 8990000, Image: "/images/ipad-gen-10.jpg", Categories: []string{"tablet"}},
	{Name: "Samsung Galaxy Tab S9 FE", Price: 9990000, Image: "/images/galaxy-tab-s9-fe.jpg", Categories: []string{"tablet", "sale"}},
	{Name: "Tai nghe Sony WH-1000XM5", Price: 6490000, Image: "/images/sony-wh-1000xm5.jpg", Categories: []string{"accessory"}},
	{Name: "Chuột Logitech MX Master 3S", Price: 2290000, Image: "/images/mx-master-3s.jpg", Categories: []string{"accessory"}},
	{Name: "Sạc dự phòng Anker 10000mAh", Price: 590000, Image: "/images/anker-10000.jpg", Categories: []string{"accessory", "sale"}},
	{Name: "Cáp USB-C Ugreen 1m", Price: 150000, Image: "/images/ugreen-usb-c.jpg", Categories: []string{"accessory"}},
}
