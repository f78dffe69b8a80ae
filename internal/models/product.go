package models

import "github.com/shopspring/decimal"

// Product is the storefront view of a catalog product at the time a trigger fires.
type Product struct {
	ID        int64           `json:"id"`
	SKU       *string         `json:"sku"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Permalink string          `json:"permalink"`
	Images    []string        `json:"images"` // full-size image URLs, primary first
	Brands    []string        `json:"brands"` // brand term names in attachment order
}

// Attribute is one variation attribute selection. Order is significant.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// AddToCart describes a single add-to-cart action.
type AddToCart struct {
	Product   *Product    `json:"product"`
	Quantity  int         `json:"quantity"`
	Variation []Attribute `json:"variation"`
}
