package processors

import (
	"context"
	"encoding/json"
	"fmt"

	"datalayer/internal/config"
	"datalayer/internal/connectors/shopify"
	"datalayer/internal/connectors/woocommerce"
	"datalayer/internal/datalayer"
	"datalayer/internal/dedup"
	"datalayer/internal/logger"
	"datalayer/internal/models"
	"datalayer/internal/triggers"
	"datalayer/internal/worker/processors/export"
	"datalayer/internal/worker/processors/validation"
)

// Connector turns a source's payloads into storefront models.
type Connector interface {
	ParseOrder(payload []byte) (*models.Order, error)
	ParseProduct(payload []byte) (*models.Product, error)
	ParseAddToCart(payload []byte) (*models.AddToCart, error)
}

type EventProcessor struct {
	config     *config.Config
	logger     *logger.Logger
	validator  *validation.Validator
	exporter   *export.Exporter
	dispatcher *triggers.Dispatcher
	markers    dedup.KeyValueStore
	connectors map[string]Connector
}

func NewEventProcessor(cfg *config.Config, logger *logger.Logger, dispatcher *triggers.Dispatcher, markers dedup.KeyValueStore, exporter *export.Exporter) *EventProcessor {
	return &EventProcessor{
		config:     cfg,
		logger:     logger,
		validator:  validation.New(cfg, logger),
		exporter:   exporter,
		dispatcher: dispatcher,
		markers:    markers,
		connectors: map[string]Connector{
			SourceNative:      nativeConnector{},
			SourceWooCommerce: woocommerce.New(cfg, logger),
			SourceShopify:     shopify.New(cfg, logger),
		},
	}
}

// Process parses the envelope payload for its source, runs the trigger and
// publishes whatever it produced.
func (ep *EventProcessor) Process(ctx context.Context, env Envelope) error {
	if err := ep.validator.ValidateEnvelope(env.ID, env.Trigger, env.SessionID, env.Payload); err != nil {
		return err
	}

	source := env.Source
	if source == "" {
		source = SourceNative
	}
	conn, ok := ep.connectors[source]
	if !ok {
		return fmt.Errorf("unknown source %q", env.Source)
	}

	req, err := ep.request(env, conn)
	if err != nil {
		return fmt.Errorf("%s payload from %s: %w", env.Trigger, source, err)
	}

	ep.logger.Debug("Processing %s from %s for session %s", env.Trigger, source, env.SessionID)
	return ep.dispatcher.Dispatch(ctx, env.Trigger, req, ep.exporter.For(env.ID.String(), env.SessionID))
}

func (ep *EventProcessor) request(env Envelope, conn Connector) (triggers.Request, error) {
	sid := env.SessionID
	req := triggers.Request{
		Scope: datalayer.Scope{Page: env.Page, Currency: env.Currency},
		Markers: dedup.Markers{
			Persistent: dedup.Namespace(ep.markers, "client:"+sid+":"),
			Session:    dedup.Expiring(dedup.Namespace(ep.markers, "tab:"+sid+":"), ep.config.SessionTTL),
			Server:     dedup.Namespace(ep.markers, "session:"+sid+":"),
			ServerTTL:  ep.config.SessionTTL,
		},
	}

	var err error
	switch env.Trigger {
	case triggers.ProductView:
		req.Product, err = conn.ParseProduct(env.Payload)
	case triggers.AddToCart:
		req.AddToCart, err = conn.ParseAddToCart(env.Payload)
	case triggers.CheckoutView:
		// Carts are never source webhooks, always storefront shape
		req.Cart = &models.Cart{}
		err = json.Unmarshal(env.Payload, req.Cart)
	case triggers.OrderComplete:
		req.Order, err = conn.ParseOrder(env.Payload)
	}
	return req, err
}

// nativeConnector decodes payloads that already use the storefront models.
type nativeConnector struct{}

func (nativeConnector) ParseOrder(payload []byte) (*models.Order, error) {
	var o models.Order
	if err := json.Unmarshal(payload, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (nativeConnector) ParseProduct(payload []byte) (*models.Product, error) {
	var p models.Product
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (nativeConnector) ParseAddToCart(payload []byte) (*models.AddToCart, error) {
	var a models.AddToCart
	if err := json.Unmarshal(payload, &a); err != nil {
		return nil, err
	}
	return &a, nil
}
