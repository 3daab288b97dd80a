package category

// All is the menu key that matches every product.
const All = "all"

// CategoryItem is one entry of the listing sidebar. Key is the value of the
// `filter` URL parameter.
type CategoryItem struct {
	Key          string `json:"categoryKey"`
	CategoryName string `json:"categoryName"`
	NameVI       string `json:"categoryNameVI,omitempty"`
	Count        int    `json:"count"`
	Active       bool   `json:"active"`
}

// DefaultMenu is the storefront sidebar.
var DefaultMenu = []CategoryItem{
	{Key: All, CategoryName: "All products", NameVI: "Tất cả sản phẩm"},
	{Key: "laptop", CategoryName: "Laptops", NameVI: "Laptop"},
	{Key: "phone", CategoryName: "Phones", NameVI: "Điện thoại"},
	{Key: "tablet", CategoryName: "Tablets", NameVI: "Máy tính bảng"},
	{Key: "accessory", CategoryName: "Accessories", NameVI: "Phụ kiện"},
	{Key: "sale", CategoryName: "On sale", NameVI: "Khuyến mãi"},
}
