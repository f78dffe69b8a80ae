package models

// PageContext carries the page classification predicates supplied by the host.
type PageContext struct {
	IsFrontPage       bool `json:"is_front_page"`
	IsShop            bool `json:"is_shop"`
	IsProduct         bool `json:"is_product"`
	IsCart            bool `json:"is_cart"`
	IsCheckout        bool `json:"is_checkout"`
	IsProductCategory bool `json:"is_product_category"`
	IsProductTag      bool `json:"is_product_tag"`

	Title    string `json:"title"`
	Location string `json:"location"`
}
