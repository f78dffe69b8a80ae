package dedup

import (
	"context"
	"time"

	"datalayer/internal/logger"
)

const (
	// CheckoutMarker suppresses initiate_checkout for the browser. It is not
	// per order.
	CheckoutMarker = "hasInitiatedCheckout"
	CheckoutTTL    = 365 * 24 * time.Hour

	serverPurchasePrefix = "thankyou_triggered_"
	clientPurchasePrefix = "thankyou_triggered"
)

// Markers groups the three stores a trigger is checked against.
type Markers struct {
	// Persistent is client-visible and long-lived (the checkout marker).
	Persistent KeyValueStore
	// Session is client-visible and scoped to the browser tab or session.
	Session KeyValueStore
	// Server is scoped to the order's processing session on the server.
	Server KeyValueStore
	// ServerTTL bounds server markers. Zero keeps them until the store
	// drops them.
	ServerTTL time.Duration
}

// PurchaseOutcome reports which stages of the purchase path ran.
type PurchaseOutcome struct {
	Built   bool // payload constructed and server marker set
	Emitted bool // payload handed to the sink and client marker set
}

// Guard decides whether initiate_checkout and purchase may fire. Store
// failures fail open: the trigger proceeds as if no marker were set.
type Guard struct {
	logger *logger.Logger
	locks  *keyedMutex
}

func NewGuard(logger *logger.Logger) *Guard {
	return &Guard{
		logger: logger,
		locks:  newKeyedMutex(),
	}
}

// CheckoutOnce calls emit unless the persistent checkout marker is set, then
// sets it for CheckoutTTL. It reports whether emit ran.
func (g *Guard) CheckoutOnce(ctx context.Context, m Markers, emit func() error) (bool, error) {
	if g.isSet(ctx, m.Persistent, CheckoutMarker) {
		g.logger.Debug("initiate_checkout suppressed by %s", CheckoutMarker)
		return false, nil
	}
	if err := emit(); err != nil {
		return false, err
	}
	g.set(ctx, m.Persistent, CheckoutMarker, true, CheckoutTTL)
	return true, nil
}

// PurchaseOnce runs the purchase path for orderID.
//
// build runs at most once per order per server marker scope and is where
// side effects such as the logState push belong. emit runs only when this
// call built the payload and the client session marker is absent. Once the
// client stage passes, the client marker is set and the persistent checkout
// marker is reset to false so the next checkout fires again.
func (g *Guard) PurchaseOnce(ctx context.Context, m Markers, orderID string, build, emit func() error) (PurchaseOutcome, error) {
	var out PurchaseOutcome

	built, err := g.claimServer(ctx, m.Server, m.ServerTTL, orderID, build)
	if err != nil {
		return out, err
	}
	out.Built = built

	clientKey := clientPurchasePrefix + orderID
	if g.isSet(ctx, m.Session, clientKey) {
		g.logger.Debug("purchase %s already pushed in this session", orderID)
		return out, nil
	}

	if built {
		if err := emit(); err != nil {
			return out, err
		}
		out.Emitted = true
	} else {
		g.logger.Debug("purchase %s was built by an earlier request, nothing to push", orderID)
	}

	g.set(ctx, m.Session, clientKey, true, 0)
	g.set(ctx, m.Persistent, CheckoutMarker, false, CheckoutTTL)
	return out, nil
}

// claimServer runs build if the server marker for orderID is absent and sets
// the marker. Check-and-set is serialized per order in-process and delegated
// to the store when it is atomic.
func (g *Guard) claimServer(ctx context.Context, store KeyValueStore, ttl time.Duration, orderID string, build func() error) (bool, error) {
	key := serverPurchasePrefix + orderID
	unlock := g.locks.Lock(key)
	defer unlock()

	if atomic, ok := store.(AtomicStore); ok {
		claimed, err := atomic.SetIfAbsent(ctx, key, true, ttl)
		if err != nil {
			g.logger.Error("claim %s failed, proceeding: %v", key, err)
			claimed = true
		}
		if !claimed {
			return false, nil
		}
		if err := build(); err != nil {
			g.set(ctx, store, key, false, ttl)
			return false, err
		}
		return true, nil
	}

	if g.isSet(ctx, store, key) {
		return false, nil
	}
	if err := build(); err != nil {
		return false, err
	}
	g.set(ctx, store, key, true, ttl)
	return true, nil
}

func (g *Guard) isSet(ctx context.Context, store KeyValueStore, key string) bool {
	value, found, err := store.Get(ctx, key)
	if err != nil {
		g.logger.Error("read marker %s failed, treating as unset: %v", key, err)
		return false
	}
	return found && value
}

func (g *Guard) set(ctx context.Context, store KeyValueStore, key string, value bool, ttl time.Duration) {
	if err := store.Set(ctx, key, value, ttl); err != nil {
		g.logger.Error("write marker %s failed: %v", key, err)
	}
}
