package woocommerce

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"datalayer/internal/config"
	"datalayer/internal/logger"
	"datalayer/internal/models"
)

// metaHiddenPrefix marks internal line item meta that is not a variation
// attribute.
const metaHiddenPrefix = "_"

type WooCommerceConnector struct {
	config *config.Config
	logger *logger.Logger
}

func New(cfg *config.Config, logger *logger.Logger) *WooCommerceConnector {
	return &WooCommerceConnector{
		config: cfg,
		logger: logger,
	}
}

// ParseOrder decodes an order.created/order.updated webhook body.
func (wc *WooCommerceConnector) ParseOrder(payload []byte) (*models.Order, error) {
	var order Order
	if err := json.Unmarshal(payload, &order); err != nil {
		return nil, fmt.Errorf("failed to parse woocommerce order: %w", err)
	}

	wc.logger.Debug("Received WooCommerce order %d with %d line items", order.ID, len(order.LineItems))

	return transformOrder(&order)
}

// ParseProduct decodes a product.* webhook body.
func (wc *WooCommerceConnector) ParseProduct(payload []byte) (*models.Product, error) {
	var product Product
	if err := json.Unmarshal(payload, &product); err != nil {
		return nil, fmt.Errorf("failed to parse woocommerce product: %w", err)
	}
	return transformProduct(&product)
}

// ParseAddToCart decodes {"product": <product>, "quantity": n}. When the
// product is a variation its selected attributes become the line variation.
func (wc *WooCommerceConnector) ParseAddToCart(payload []byte) (*models.AddToCart, error) {
	var body AddToCart
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("failed to parse woocommerce add to cart: %w", err)
	}
	if body.Product == nil {
		return &models.AddToCart{Quantity: body.Quantity}, nil
	}

	product, err := transformProduct(body.Product)
	if err != nil {
		return nil, err
	}
	return &models.AddToCart{
		Product:   product,
		Quantity:  body.Quantity,
		Variation: selectedAttributes(body.Product),
	}, nil
}

func transformOrder(o *Order) (*models.Order, error) {
	total, err := parseAmount(o.Total)
	if err != nil {
		return nil, fmt.Errorf("invalid total: %w", err)
	}
	tax, err := parseAmount(o.TotalTax)
	if err != nil {
		return nil, fmt.Errorf("invalid total_tax: %w", err)
	}
	shipping, err := parseAmount(o.ShippingTotal)
	if err != nil {
		return nil, fmt.Errorf("invalid shipping_total: %w", err)
	}

	order := &models.Order{
		ID:            o.ID,
		Number:        o.Number,
		Currency:      o.Currency,
		PaymentMethod: o.PaymentMethod,
		Total:         total,
		TotalTax:      tax,
		ShippingTotal: shipping,
		Billing:       o.Billing,
		Shipping:      o.Shipping,
	}
	if o.Billing != nil {
		order.BillingEmail = o.Billing.Email
	}
	// Guest orders have customer_id 0 and no account
	if o.CustomerID != 0 && o.Billing != nil {
		order.Customer = &models.Customer{
			FirstName: o.Billing.FirstName,
			LastName:  o.Billing.LastName,
			Billing:   o.Billing,
		}
	}

	for _, li := range o.LineItems {
		subtotal, err := parseAmount(li.Subtotal)
		if err != nil {
			return nil, fmt.Errorf("line item %d: invalid subtotal: %w", li.ID, err)
		}
		order.Subtotal = order.Subtotal.Add(subtotal)
		order.Items = append(order.Items, transformLineItem(li))
	}
	return order, nil
}

func transformLineItem(li LineItem) models.OrderItem {
	product := models.Product{
		ID:    li.ProductID,
		SKU:   li.SKU,
		Name:  li.Name,
		Price: li.Price,
	}
	if li.Image != nil && li.Image.Src != "" {
		product.Images = []string{li.Image.Src}
	}

	item := models.OrderItem{Product: product, Quantity: li.Quantity}
	// A variation line stands for the variation, not its parent
	if li.VariationID != 0 {
		item.Product.ID = li.VariationID
		item.Variation = variationAttributes(li.MetaData)
	}
	return item
}

// variationAttributes keeps the visible string meta of a variation line in
// stored order.
func variationAttributes(meta []MetaData) []models.Attribute {
	var attrs []models.Attribute
	for _, m := range meta {
		if strings.HasPrefix(m.Key, metaHiddenPrefix) {
			continue
		}
		var value string
		if err := json.Unmarshal(m.Value, &value); err != nil {
			continue
		}
		attrs = append(attrs, models.Attribute{Key: m.Key, Value: value})
	}
	return attrs
}

func transformProduct(p *Product) (*models.Product, error) {
	price, err := parseAmount(p.Price)
	if err != nil {
		return nil, fmt.Errorf("invalid price: %w", err)
	}

	product := &models.Product{
		ID:        p.ID,
		SKU:       p.SKU,
		Name:      p.Name,
		Price:     price,
		Permalink: p.Permalink,
	}
	for _, img := range p.Images {
		if img.Src != "" {
			product.Images = append(product.Images, img.Src)
		}
	}
	for _, b := range p.Brands {
		product.Brands = append(product.Brands, b.Name)
	}
	return product, nil
}

// selectedAttributes returns the chosen options of a variation product in
// stored order.
func selectedAttributes(p *Product) []models.Attribute {
	attrs := make([]models.Attribute, 0, len(p.Variation))
	for _, v := range p.Variation {
		attrs = append(attrs, models.Attribute{Key: v.Name, Value: v.Option})
	}
	return attrs
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
