package datalayer

import "github.com/shopspring/decimal"

func init() {
	// dataLayer consumers read amounts as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

type EventName string

const (
	EventPageView         EventName = "page_view"
	EventAddToCart        EventName = "add_to_cart"
	EventViewItem         EventName = "view_item"
	EventInitiateCheckout EventName = "initiate_checkout"
	EventPurchase         EventName = "purchase"
	EventLogState         EventName = "logState"
)

// Affiliation is the constant affiliation attached to every commerce event.
const Affiliation = "Online Store"

// Record is anything that can be pushed onto the dataLayer.
type Record interface {
	EventName() EventName
}

// LineItem is one product line in an ecommerce event.
type LineItem struct {
	ItemID      string          `json:"item_id"`
	ItemName    string          `json:"item_name"`
	ItemVariant string          `json:"item_variant"`
	Currency    string          `json:"currency"`
	Price       decimal.Decimal `json:"price"`
	Brand       string          `json:"item_brand"`
	ImageURL    string          `json:"image_url"`
	ProductURL  string          `json:"product_url"`
	Quantity    int             `json:"quantity"`
}

// Ecommerce is the nested commerce object of an event. The transaction fields
// are only set on purchase.
type Ecommerce struct {
	TransactionNumber string           `json:"transaction_number,omitempty"`
	TransactionID     string           `json:"transaction_id,omitempty"`
	ShopID            string           `json:"shop_id"`
	Gateway           string           `json:"gateway,omitempty"`
	Value             decimal.Decimal  `json:"value"`
	Currency          string           `json:"currency"`
	Affiliation       string           `json:"affiliation"`
	Tax               *decimal.Decimal `json:"tax,omitempty"`
	Shipping          *decimal.Decimal `json:"shipping,omitempty"`
	Subtotal          *decimal.Decimal `json:"transaction_subtotal,omitempty"`
	Items             []LineItem       `json:"items"`
}

// Event is the canonical dataLayer record for page_view and commerce events.
type Event struct {
	Name         EventName  `json:"event"`
	PageType     PageType   `json:"pageType,omitempty"`
	PageTitle    string     `json:"page_title,omitempty"`
	PageLocation string     `json:"page_location,omitempty"`
	ShopID       string     `json:"shop_id,omitempty"`
	Ecommerce    *Ecommerce `json:"ecommerce,omitempty"`
}

func (e *Event) EventName() EventName { return e.Name }

// AddressInfo is one logState address block. Every field is nullable.
type AddressInfo struct {
	FullName    *string `json:"fullName"`
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Address1    *string `json:"address1"`
	Address2    *string `json:"address2"`
	Street      *string `json:"street"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	StateCode   *string `json:"state_code"`
	Zip         *string `json:"zip"`
	Country     *string `json:"country"`
	CountryCode *string `json:"country_code"`
	Phone       *string `json:"phone"`
}

// LogState is the customer snapshot pushed alongside a purchase.
type LogState struct {
	Name          EventName   `json:"event"`
	LogState      string      `json:"logState"`
	Currency      string      `json:"currency"`
	CustomerEmail *string     `json:"customerEmail"`
	CheckoutEmail *string     `json:"checkoutEmail"`
	CustomerType  string      `json:"customerType"`
	CustomerInfo  AddressInfo `json:"customerInfo"`
	ShippingInfo  AddressInfo `json:"shippingInfo"`
	BillingInfo   AddressInfo `json:"billingInfo"`
}

func (l *LogState) EventName() EventName { return l.Name }
