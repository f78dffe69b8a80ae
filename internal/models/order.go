package models

import "github.com/shopspring/decimal"

type Order struct {
	ID            int64           `json:"id"`
	Number        string          `json:"number"`
	Currency      string          `json:"currency"`
	PaymentMethod string          `json:"payment_method"`
	Total         decimal.Decimal `json:"total"`
	TotalTax      decimal.Decimal `json:"total_tax"`
	ShippingTotal decimal.Decimal `json:"shipping_total"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	BillingEmail  *string         `json:"billing_email"`
	Customer      *Customer       `json:"customer"`
	Billing       *Address        `json:"billing"`
	Shipping      *Address        `json:"shipping"`
	Items         []OrderItem     `json:"items"`
}

type OrderItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	// Variation holds the attributes of the purchased variation, if any.
	Variation []Attribute `json:"variation"`
}

// Customer is the account that placed the order.
type Customer struct {
	FirstName *string  `json:"first_name"`
	LastName  *string  `json:"last_name"`
	Billing   *Address `json:"billing"`
}

type Address struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Address1  *string `json:"address_1"`
	Address2  *string `json:"address_2"`
	City      *string `json:"city"`
	State     *string `json:"state"`
	Postcode  *string `json:"postcode"`
	Country   *string `json:"country"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
}
