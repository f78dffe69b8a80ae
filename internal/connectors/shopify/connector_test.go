package shopify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datalayer/internal/config"
	"datalayer/internal/logger"
	"datalayer/internal/models"
)

const paidOrder = `{
  "id": 450789469,
  "order_number": 1001,
  "name": "#1001",
  "currency": "USD",
  "email": "bob@example.com",
  "gateway": "",
  "payment_gateway_names": ["shopify_payments"],
  "total_price": "61.00",
  "subtotal_price": "50.00",
  "total_tax": "5.00",
  "total_shipping_price_set": {"shop_money": {"amount": "6.00", "currency_code": "USD"}},
  "customer": {
    "id": 207119551, "first_name": "Bob", "last_name": "Norman",
    "default_address": {"address1": "Chestnut Street 92", "city": "Louisville", "province": "Kentucky", "province_code": "KY", "zip": "40202", "country": "United States", "country_code": "US"}
  },
  "billing_address": {"first_name": "Bob", "last_name": "Norman", "address1": "Chestnut Street 92", "city": "Louisville", "province": "Kentucky", "zip": "40202", "country": "United States", "phone": "555-625-1199"},
  "shipping_address": null,
  "line_items": [
    {"id": 1, "product_id": 632910392, "variant_id": 808950810, "title": "IPod Nano", "variant_title": "Pink / 8GB", "sku": "IPOD-PINK", "vendor": "Apple", "price": "20.00", "quantity": 2},
    {"id": 2, "product_id": null, "variant_id": null, "title": "Gift wrap", "variant_title": null, "sku": null, "vendor": null, "price": "10.00", "quantity": 1}
  ]
}`

const nanoProduct = `{
  "id": 632910392, "title": "IPod Nano", "vendor": "Apple", "handle": "ipod-nano",
  "variants": [
    {"id": 1, "title": "Pink", "price": "199.00", "sku": "IPOD-PINK", "position": 2, "option1": "Pink", "option2": null},
    {"id": 2, "title": "Black", "price": "189.00", "sku": "IPOD-BLACK", "position": 1, "option1": "Black", "option2": "8GB"}
  ],
  "images": [{"id": 1, "position": 1, "src": "https://cdn.example.com/nano.png"}]
}`

func newConnector() *ShopifyConnector {
	return New(&config.Config{HomeURL: "https://shop.example.com/"}, logger.NewNop())
}

func TestParseOrder(t *testing.T) {
	order, err := newConnector().ParseOrder([]byte(paidOrder))
	require.NoError(t, err)

	assert.Equal(t, int64(450789469), order.ID)
	assert.Equal(t, "1001", order.Number)
	assert.Equal(t, "shopify_payments", order.PaymentMethod)
	assert.Equal(t, "61", order.Total.String())
	assert.Equal(t, "50", order.Subtotal.String())
	assert.Equal(t, "5", order.TotalTax.String())
	assert.Equal(t, "6", order.ShippingTotal.String())
	assert.Equal(t, "bob@example.com", *order.BillingEmail)
	assert.Nil(t, order.Shipping)

	require.NotNil(t, order.Billing)
	assert.Equal(t, "Kentucky", *order.Billing.State, "province name when no code")
	require.NotNil(t, order.Customer)
	assert.Equal(t, "KY", *order.Customer.Billing.State)
	assert.Equal(t, "US", *order.Customer.Billing.Country)

	require.Len(t, order.Items, 2)
	nano := order.Items[0]
	assert.Equal(t, []string{"Apple"}, nano.Product.Brands)
	assert.Equal(t, []models.Attribute{
		{Key: "option1", Value: "Pink"},
		{Key: "option2", Value: "8GB"},
	}, nano.Variation)

	wrap := order.Items[1]
	assert.Zero(t, wrap.Product.ID)
	assert.Nil(t, wrap.Product.SKU)
	assert.Nil(t, wrap.Variation)
}

func TestParseOrderNumberFallsBackToName(t *testing.T) {
	order, err := newConnector().ParseOrder([]byte(`{"id": 1, "name": "#A-7", "total_price": "1"}`))
	require.NoError(t, err)
	assert.Equal(t, "#A-7", order.Number)
}

func TestParseOrderErrors(t *testing.T) {
	c := newConnector()

	_, err := c.ParseOrder([]byte(`[`))
	assert.ErrorContains(t, err, "failed to parse shopify order")

	_, err = c.ParseOrder([]byte(`{"total_price": "1", "line_items": [{"id": 9, "price": "x"}]}`))
	assert.ErrorContains(t, err, "line item 9")
}

func TestParseProduct(t *testing.T) {
	product, err := newConnector().ParseProduct([]byte(nanoProduct))
	require.NoError(t, err)

	assert.Equal(t, "189", product.Price.String(), "position 1 variant is primary")
	assert.Equal(t, "IPOD-BLACK", *product.SKU)
	assert.Equal(t, "https://shop.example.com/products/ipod-nano", product.Permalink)
	assert.Equal(t, []string{"https://cdn.example.com/nano.png"}, product.Images)

	_, err = newConnector().ParseProduct([]byte(`{"id": 3, "variants": []}`))
	assert.ErrorContains(t, err, "no variants found for product 3")
}

func TestParseAddToCart(t *testing.T) {
	add, err := newConnector().ParseAddToCart([]byte(`{"variant_id": 1, "quantity": 2, "product": ` + nanoProduct + `}`))
	require.NoError(t, err)

	assert.Equal(t, 2, add.Quantity)
	assert.Equal(t, "199", add.Product.Price.String())
	assert.Equal(t, "IPOD-PINK", *add.Product.SKU)
	assert.Equal(t, []models.Attribute{{Key: "option1", Value: "Pink"}}, add.Variation)

	add, err = newConnector().ParseAddToCart([]byte(`{"variant_id": 99, "quantity": 1, "product": ` + nanoProduct + `}`))
	require.NoError(t, err)
	assert.Equal(t, "189", add.Product.Price.String(), "unknown variant keeps the primary")
	assert.Nil(t, add.Variation)
}
