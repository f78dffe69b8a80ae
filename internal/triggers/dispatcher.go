package triggers

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"datalayer/internal/datalayer"
	"datalayer/internal/dedup"
	"datalayer/internal/logger"
	"datalayer/internal/models"
	"datalayer/internal/sink"
)

var ErrUnknownTrigger = errors.New("no handler registered for trigger")

// Request is everything a handler may need for one trigger. Only the fields
// relevant to the trigger are read.
type Request struct {
	Scope     datalayer.Scope
	Product   *models.Product
	AddToCart *models.AddToCart
	Cart      *models.Cart
	Order     *models.Order
	Markers   dedup.Markers
}

// Handler runs one trigger and pushes whatever it produced onto out.
type Handler func(ctx context.Context, req Request, out sink.Sink) error

// Dispatcher routes triggers through a table populated at startup.
type Dispatcher struct {
	logger   *logger.Logger
	handlers map[Trigger]Handler
}

func NewDispatcher(logger *logger.Logger) *Dispatcher {
	return &Dispatcher{
		logger:   logger,
		handlers: make(map[Trigger]Handler),
	}
}

// Register installs h for t, replacing any previous handler.
func (d *Dispatcher) Register(t Trigger, h Handler) {
	d.handlers[t] = h
}

// Dispatch runs the handler for t. Errors stay local to this trigger.
func (d *Dispatcher) Dispatch(ctx context.Context, t Trigger, req Request, out sink.Sink) error {
	h, ok := d.handlers[t]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTrigger, t)
	}
	if err := h(ctx, req, out); err != nil {
		d.logger.Error("trigger %s aborted: %v", t, err)
		return err
	}
	d.logger.Debug("trigger %s handled", t)
	return nil
}

// RegisterDefaults wires the storefront triggers to the builder and guard.
func RegisterDefaults(d *Dispatcher, b *datalayer.Builder, g *dedup.Guard) {
	d.Register(PageRender, func(ctx context.Context, req Request, out sink.Sink) error {
		return out.Push(ctx, b.PageView(req.Scope))
	})

	d.Register(ProductView, func(ctx context.Context, req Request, out sink.Sink) error {
		ev, ok, err := b.ViewItem(req.Scope, req.Product)
		if err != nil || !ok {
			return err
		}
		return out.Push(ctx, ev)
	})

	d.Register(AddToCart, func(ctx context.Context, req Request, out sink.Sink) error {
		ev, err := b.AddToCart(req.Scope, req.AddToCart)
		if err != nil {
			return err
		}
		return out.Push(ctx, ev)
	})

	d.Register(CheckoutView, func(ctx context.Context, req Request, out sink.Sink) error {
		ev, err := b.InitiateCheckout(req.Scope, req.Cart)
		if err != nil {
			return err
		}
		_, err = g.CheckoutOnce(ctx, req.Markers, func() error {
			return out.Push(ctx, ev)
		})
		return err
	})

	d.Register(OrderComplete, func(ctx context.Context, req Request, out sink.Sink) error {
		if req.Order == nil {
			return &datalayer.ErrMissingContext{Event: datalayer.EventPurchase, What: "order"}
		}

		var purchase *datalayer.Event
		_, err := g.PurchaseOnce(ctx, req.Markers, strconv.FormatInt(req.Order.ID, 10),
			func() error {
				state, err := b.LogState(req.Order)
				if err != nil {
					return err
				}
				if purchase, err = b.Purchase(req.Order); err != nil {
					return err
				}
				return out.Push(ctx, state)
			},
			func() error {
				return out.Push(ctx, purchase)
			},
		)
		return err
	})
}
