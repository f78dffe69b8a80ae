package woocommerce

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"datalayer/internal/models"
)

// Order is the WooCommerce REST v3 order resource, as sent by order webhooks.
// Billing and shipping share the storefront address shape.
type Order struct {
	ID            int64           `json:"id"`
	Number        string          `json:"number"`
	Currency      string          `json:"currency"`
	PaymentMethod string          `json:"payment_method"`
	Total         string          `json:"total"`
	TotalTax      string          `json:"total_tax"`
	ShippingTotal string          `json:"shipping_total"`
	CustomerID    int64           `json:"customer_id"`
	Billing       *models.Address `json:"billing"`
	Shipping      *models.Address `json:"shipping"`
	LineItems     []LineItem      `json:"line_items"`
}

type LineItem struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	ProductID   int64           `json:"product_id"`
	VariationID int64           `json:"variation_id"`
	Quantity    int             `json:"quantity"`
	SKU         *string         `json:"sku"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    string          `json:"subtotal"`
	Image       *Image          `json:"image"`
	MetaData    []MetaData      `json:"meta_data"`
}

type MetaData struct {
	ID    int64           `json:"id"`
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

type Image struct {
	ID  json.RawMessage `json:"id"`
	Src string          `json:"src"`
}

// Product is the WooCommerce REST v3 product resource.
type Product struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	SKU       *string   `json:"sku"`
	Price     string    `json:"price"`
	Permalink string    `json:"permalink"`
	Images    []Image   `json:"images"`
	Brands    []Term    `json:"brands"`
	Variation []Variant `json:"attributes"`
}

type Term struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Variant is a selected attribute on a variation product.
type Variant struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Option string `json:"option"`
}

// AddToCart is the add-to-cart message published by the storefront plugin.
type AddToCart struct {
	Product  *Product `json:"product"`
	Quantity int      `json:"quantity"`
}
