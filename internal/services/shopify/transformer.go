package shopify

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"datalayer/internal/models"
)

// variantTitleSeparator joins option values in Shopify variant titles.
const variantTitleSeparator = " / "

type Transformer struct {
	storeURL string
}

// NewTransformer builds product permalinks under storeURL.
func NewTransformer(storeURL string) *Transformer {
	return &Transformer{storeURL: strings.TrimRight(storeURL, "/")}
}

// TransformProduct converts a Shopify product to the storefront snapshot
func (t *Transformer) TransformProduct(shopifyProduct *Product) (*models.Product, error) {
	// Get the primary variant (first variant or the one with position 1)
	var primaryVariant *Variant
	for i := range shopifyProduct.Variants {
		if shopifyProduct.Variants[i].Position == 1 {
			primaryVariant = &shopifyProduct.Variants[i]
			break
		}
	}
	if primaryVariant == nil && len(shopifyProduct.Variants) > 0 {
		primaryVariant = &shopifyProduct.Variants[0]
	}

	if primaryVariant == nil {
		return nil, fmt.Errorf("no variants found for product %d", shopifyProduct.ID)
	}

	price, err := parseAmount(primaryVariant.Price)
	if err != nil {
		return nil, fmt.Errorf("invalid price format: %w", err)
	}

	// Images are ordered by position, primary first
	images := make([]string, 0, len(shopifyProduct.Images))
	for _, img := range shopifyProduct.Images {
		images = append(images, img.Src)
	}

	product := &models.Product{
		ID:        shopifyProduct.ID,
		Name:      shopifyProduct.Title,
		Price:     price,
		Permalink: t.permalink(shopifyProduct.Handle),
		Images:    images,
	}
	if primaryVariant.Sku != "" {
		sku := primaryVariant.Sku
		product.SKU = &sku
	}
	if shopifyProduct.Vendor != "" {
		product.Brands = []string{shopifyProduct.Vendor}
	}
	return product, nil
}

// TransformAddToCart builds an add-to-cart snapshot for the chosen variant.
// The variant's SKU and price win over the product's primary variant.
func (t *Transformer) TransformAddToCart(shopifyProduct *Product, variantID int64, quantity int) (*models.AddToCart, error) {
	product, err := t.TransformProduct(shopifyProduct)
	if err != nil {
		return nil, err
	}

	add := &models.AddToCart{Product: product, Quantity: quantity}
	for i := range shopifyProduct.Variants {
		v := &shopifyProduct.Variants[i]
		if v.ID != variantID {
			continue
		}
		price, err := parseAmount(v.Price)
		if err != nil {
			return nil, fmt.Errorf("invalid price for variant %d: %w", v.ID, err)
		}
		product.Price = price
		product.SKU = nil
		if v.Sku != "" {
			sku := v.Sku
			product.SKU = &sku
		}
		add.Variation = variantAttributes(v)
		break
	}
	return add, nil
}

// variantAttributes lists option1..option3 in order, skipping unset options.
func variantAttributes(v *Variant) []models.Attribute {
	var attrs []models.Attribute
	for i, opt := range []*string{v.Option1, v.Option2, v.Option3} {
		if opt == nil {
			continue
		}
		attrs = append(attrs, models.Attribute{Key: fmt.Sprintf("option%d", i+1), Value: *opt})
	}
	return attrs
}

// TransformOrder converts a Shopify order to the storefront snapshot
func (t *Transformer) TransformOrder(shopifyOrder *Order) (*models.Order, error) {
	total, err := parseAmount(shopifyOrder.TotalPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid total_price: %w", err)
	}
	subtotal, err := parseAmount(shopifyOrder.SubtotalPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid subtotal_price: %w", err)
	}
	tax, err := parseAmount(shopifyOrder.TotalTax)
	if err != nil {
		return nil, fmt.Errorf("invalid total_tax: %w", err)
	}
	shipping := decimal.Zero
	if set := shopifyOrder.TotalShippingPriceSet; set != nil {
		if shipping, err = parseAmount(set.ShopMoney.Amount); err != nil {
			return nil, fmt.Errorf("invalid shipping amount: %w", err)
		}
	}

	gateway := shopifyOrder.Gateway
	if gateway == "" && len(shopifyOrder.PaymentGatewayNames) > 0 {
		gateway = shopifyOrder.PaymentGatewayNames[0]
	}

	number := shopifyOrder.Name
	if shopifyOrder.OrderNumber != 0 {
		number = strconv.FormatInt(shopifyOrder.OrderNumber, 10)
	}

	order := &models.Order{
		ID:            shopifyOrder.ID,
		Number:        number,
		Currency:      shopifyOrder.Currency,
		PaymentMethod: gateway,
		Total:         total,
		TotalTax:      tax,
		ShippingTotal: shipping,
		Subtotal:      subtotal,
		BillingEmail:  shopifyOrder.Email,
		Billing:       transformAddress(shopifyOrder.BillingAddress),
		Shipping:      transformAddress(shopifyOrder.ShippingAddress),
	}
	if c := shopifyOrder.Customer; c != nil {
		order.Customer = &models.Customer{
			FirstName: c.FirstName,
			LastName:  c.LastName,
			Billing:   transformAddress(c.DefaultAddress),
		}
	}

	for _, li := range shopifyOrder.LineItems {
		item, err := t.transformLineItem(li)
		if err != nil {
			return nil, fmt.Errorf("line item %d: %w", li.ID, err)
		}
		order.Items = append(order.Items, item)
	}
	return order, nil
}

func (t *Transformer) transformLineItem(li LineItem) (models.OrderItem, error) {
	price, err := parseAmount(li.Price)
	if err != nil {
		return models.OrderItem{}, fmt.Errorf("invalid price: %w", err)
	}

	// Custom line items have no product
	var productID int64
	if li.ProductID != nil {
		productID = *li.ProductID
	}

	product := models.Product{
		ID:    productID,
		SKU:   li.Sku,
		Name:  li.Title,
		Price: price,
	}
	if li.Vendor != nil && *li.Vendor != "" {
		product.Brands = []string{*li.Vendor}
	}

	return models.OrderItem{
		Product:   product,
		Quantity:  li.Quantity,
		Variation: variantOptions(li.VariantTitle),
	}, nil
}

// variantOptions splits "Red / L" into ordered option attributes.
func variantOptions(title *string) []models.Attribute {
	if title == nil || *title == "" {
		return nil
	}
	parts := strings.Split(*title, variantTitleSeparator)
	attrs := make([]models.Attribute, 0, len(parts))
	for i, part := range parts {
		attrs = append(attrs, models.Attribute{
			Key:   fmt.Sprintf("option%d", i+1),
			Value: strings.TrimSpace(part),
		})
	}
	return attrs
}

func transformAddress(a *Address) *models.Address {
	if a == nil {
		return nil
	}
	return &models.Address{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Address1:  a.Address1,
		Address2:  a.Address2,
		City:      a.City,
		State:     firstSet(a.ProvinceCode, a.Province),
		Postcode:  a.Zip,
		Country:   firstSet(a.CountryCode, a.Country),
		Phone:     a.Phone,
	}
}

func (t *Transformer) permalink(handle string) string {
	if handle == "" || t.storeURL == "" {
		return ""
	}
	return t.storeURL + "/products/" + handle
}

func firstSet(values ...*string) *string {
	for _, v := range values {
		if v != nil && *v != "" {
			return v
		}
	}
	return nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
