package shopify

import (
	"encoding/json"
	"fmt"

	"datalayer/internal/config"
	"datalayer/internal/logger"
	"datalayer/internal/models"
	shopifysvc "datalayer/internal/services/shopify"
)

type ShopifyConnector struct {
	config      *config.Config
	logger      *logger.Logger
	transformer *shopifysvc.Transformer
}

func New(cfg *config.Config, logger *logger.Logger) *ShopifyConnector {
	return &ShopifyConnector{
		config:      cfg,
		logger:      logger,
		transformer: shopifysvc.NewTransformer(cfg.HomeURL),
	}
}

// ParseOrder decodes an orders/create or orders/paid webhook body.
func (sc *ShopifyConnector) ParseOrder(payload []byte) (*models.Order, error) {
	var order shopifysvc.Order
	if err := json.Unmarshal(payload, &order); err != nil {
		return nil, fmt.Errorf("failed to parse shopify order: %w", err)
	}

	sc.logger.Debug("Received Shopify order %d with %d line items", order.ID, len(order.LineItems))

	return sc.transformer.TransformOrder(&order)
}

// ParseProduct decodes a products/* webhook body.
func (sc *ShopifyConnector) ParseProduct(payload []byte) (*models.Product, error) {
	var product shopifysvc.Product
	if err := json.Unmarshal(payload, &product); err != nil {
		return nil, fmt.Errorf("failed to parse shopify product: %w", err)
	}
	return sc.transformer.TransformProduct(&product)
}

// ParseAddToCart decodes {"product": <product>, "variant_id": id, "quantity": n}.
func (sc *ShopifyConnector) ParseAddToCart(payload []byte) (*models.AddToCart, error) {
	var body struct {
		Product   *shopifysvc.Product `json:"product"`
		VariantID int64               `json:"variant_id"`
		Quantity  int                 `json:"quantity"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("failed to parse shopify add to cart: %w", err)
	}
	if body.Product == nil {
		return &models.AddToCart{Quantity: body.Quantity}, nil
	}
	return sc.transformer.TransformAddToCart(body.Product, body.VariantID, body.Quantity)
}
