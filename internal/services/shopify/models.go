package shopify

// Product represents a Shopify product
type Product struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Vendor   string    `json:"vendor"`
	Handle   string    `json:"handle"`
	Variants []Variant `json:"variants"`
	Images   []Image   `json:"images"`
}

// Variant represents a product variant
type Variant struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Price    string  `json:"price"`
	Sku      string  `json:"sku"`
	Position int     `json:"position"`
	Option1  *string `json:"option1"`
	Option2  *string `json:"option2"`
	Option3  *string `json:"option3"`
}

// Image represents a product image
type Image struct {
	ID       int64  `json:"id"`
	Position int    `json:"position"`
	Src      string `json:"src"`
}

// Order represents a Shopify order as delivered by the orders/* webhooks
type Order struct {
	ID                    int64      `json:"id"`
	OrderNumber           int64      `json:"order_number"`
	Name                  string     `json:"name"`
	Currency              string     `json:"currency"`
	Email                 *string    `json:"email"`
	Gateway               string     `json:"gateway"`
	PaymentGatewayNames   []string   `json:"payment_gateway_names"`
	TotalPrice            string     `json:"total_price"`
	SubtotalPrice         string     `json:"subtotal_price"`
	TotalTax              string     `json:"total_tax"`
	TotalShippingPriceSet *PriceSet  `json:"total_shipping_price_set"`
	Customer              *Customer  `json:"customer"`
	BillingAddress        *Address   `json:"billing_address"`
	ShippingAddress       *Address   `json:"shipping_address"`
	LineItems             []LineItem `json:"line_items"`
}

// LineItem represents one order line
type LineItem struct {
	ID           int64   `json:"id"`
	ProductID    *int64  `json:"product_id"`
	VariantID    *int64  `json:"variant_id"`
	Title        string  `json:"title"`
	VariantTitle *string `json:"variant_title"`
	Sku          *string `json:"sku"`
	Vendor       *string `json:"vendor"`
	Price        string  `json:"price"`
	Quantity     int     `json:"quantity"`
}

// Customer represents the customer attached to an order
type Customer struct {
	ID             int64    `json:"id"`
	FirstName      *string  `json:"first_name"`
	LastName       *string  `json:"last_name"`
	Email          *string  `json:"email"`
	DefaultAddress *Address `json:"default_address"`
}

// Address represents a billing, shipping or customer address
type Address struct {
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	Address1     *string `json:"address1"`
	Address2     *string `json:"address2"`
	City         *string `json:"city"`
	Province     *string `json:"province"`
	ProvinceCode *string `json:"province_code"`
	Zip          *string `json:"zip"`
	Country      *string `json:"country"`
	CountryCode  *string `json:"country_code"`
	Phone        *string `json:"phone"`
}

// PriceSet carries an amount in shop and presentment currencies
type PriceSet struct {
	ShopMoney Money `json:"shop_money"`
}

type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currency_code"`
}
