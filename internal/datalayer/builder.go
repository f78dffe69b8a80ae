package datalayer

import (
	"strconv"

	"github.com/shopspring/decimal"

	"datalayer/internal/models"
)

// Scope is the per-trigger context the host hands to the builder.
type Scope struct {
	Page     models.PageContext
	Currency string // overrides the store default when set
}

// Builder maps commerce snapshots onto dataLayer records. It holds no
// per-request state and is safe for concurrent use.
type Builder struct {
	store    StoreIdentity
	currency string
}

func NewBuilder(homeURL, currency string) *Builder {
	return &Builder{
		store:    NewStoreIdentity(homeURL),
		currency: currency,
	}
}

func (b *Builder) Store() StoreIdentity {
	return b.store
}

func (b *Builder) currencyFor(s Scope) string {
	if s.Currency != "" {
		return s.Currency
	}
	return b.currency
}

// PageView builds the page_view event sent on every render.
func (b *Builder) PageView(s Scope) *Event {
	return &Event{
		Name:         EventPageView,
		PageType:     ResolvePageType(s.Page),
		PageTitle:    s.Page.Title,
		PageLocation: s.Page.Location,
		ShopID:       b.store.StoreID,
	}
}

// AddToCart builds add_to_cart. Value is unit price times quantity.
func (b *Builder) AddToCart(s Scope, a *models.AddToCart) (*Event, error) {
	if a == nil || a.Product == nil {
		return nil, missing(EventAddToCart, "product")
	}
	if a.Quantity < 1 {
		return nil, missing(EventAddToCart, "quantity")
	}

	currency := b.currencyFor(s)
	item := lineItem(a.Product, currency, a.Quantity, a.Variation)

	return &Event{
		Name: EventAddToCart,
		Ecommerce: &Ecommerce{
			ShopID:      b.store.StoreID,
			Value:       lineTotal(a.Product.Price, a.Quantity),
			Currency:    currency,
			Affiliation: Affiliation,
			Items:       []LineItem{item},
		},
	}, nil
}

// ViewItem builds view_item. It only fires on single product pages; ok is
// false otherwise.
func (b *Builder) ViewItem(s Scope, p *models.Product) (event *Event, ok bool, err error) {
	if !s.Page.IsProduct {
		return nil, false, nil
	}
	if p == nil {
		return nil, false, missing(EventViewItem, "product")
	}

	currency := b.currencyFor(s)
	return &Event{
		Name:     EventViewItem,
		PageType: ResolvePageType(s.Page),
		Ecommerce: &Ecommerce{
			ShopID:      b.store.StoreID,
			Currency:    currency,
			Affiliation: Affiliation,
			Value:       p.Price,
			Items:       []LineItem{lineItem(p, currency, 1, nil)},
		},
	}, true, nil
}

// InitiateCheckout builds initiate_checkout from the cart. Value is the sum
// of unit price times quantity over all lines.
func (b *Builder) InitiateCheckout(s Scope, cart *models.Cart) (*Event, error) {
	if cart.IsEmpty() {
		return nil, missing(EventInitiateCheckout, "cart")
	}

	currency := b.currencyFor(s)
	items := make([]LineItem, 0, len(cart.Lines))
	total := decimal.Zero
	for i := range cart.Lines {
		line := &cart.Lines[i]
		total = total.Add(lineTotal(line.Product.Price, line.Quantity))
		items = append(items, lineItem(&line.Product, currency, line.Quantity, line.Variation))
	}

	return &Event{
		Name:     EventInitiateCheckout,
		PageType: ResolvePageType(s.Page),
		Ecommerce: &Ecommerce{
			ShopID:      b.store.StoreID,
			Currency:    currency,
			Value:       total,
			Affiliation: Affiliation,
			Items:       items,
		},
	}, nil
}

// Purchase builds the purchase event for a completed order.
func (b *Builder) Purchase(order *models.Order) (*Event, error) {
	if order == nil {
		return nil, missing(EventPurchase, "order")
	}

	items := make([]LineItem, 0, len(order.Items))
	total := decimal.Zero
	for i := range order.Items {
		it := &order.Items[i]
		total = total.Add(lineTotal(it.Product.Price, it.Quantity))
		items = append(items, lineItem(&it.Product, order.Currency, it.Quantity, it.Variation))
	}

	number := order.Number
	if number == "" {
		number = strconv.FormatInt(order.ID, 10)
	}
	tax, shipping, subtotal := order.TotalTax, order.ShippingTotal, order.Subtotal

	return &Event{
		Name:     EventPurchase,
		PageType: PageThankYou,
		Ecommerce: &Ecommerce{
			TransactionNumber: number,
			TransactionID:     number,
			Affiliation:       Affiliation,
			ShopID:            b.store.StoreID,
			Gateway:           order.PaymentMethod,
			Value:             total,
			Currency:          order.Currency,
			Tax:               &tax,
			Shipping:          &shipping,
			Subtotal:          &subtotal,
			Items:             items,
		},
	}, nil
}

func lineTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

func lineItem(p *models.Product, currency string, quantity int, variation []models.Attribute) LineItem {
	variant := VariantName(p.Name, variation)
	if variant == "" {
		variant = ItemID(p)
	}
	return LineItem{
		ItemID:      ItemID(p),
		ItemName:    p.Name,
		ItemVariant: variant,
		Currency:    currency,
		Price:       p.Price,
		Brand:       Brand(p),
		ImageURL:    ImageURL(p),
		ProductURL:  p.Permalink,
		Quantity:    quantity,
	}
}

// ItemID is the product SKU, or the product id when the SKU is absent or empty.
func ItemID(p *models.Product) string {
	if p.SKU != nil && *p.SKU != "" {
		return *p.SKU
	}
	return strconv.FormatInt(p.ID, 10)
}

// VariantName folds the attributes in stored order: the last non-empty value
// wins. With no such value the default is returned.
func VariantName(def string, attrs []models.Attribute) string {
	name := def
	for _, a := range attrs {
		if a.Value != "" {
			name = a.Value
		}
	}
	return name
}

// Brand is the first brand term attached to the product, or "".
func Brand(p *models.Product) string {
	if len(p.Brands) == 0 {
		return ""
	}
	return p.Brands[0]
}

// ImageURL is the first full-size image, or "".
func ImageURL(p *models.Product) string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
