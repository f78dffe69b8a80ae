package dedup

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is wrapped by stores whose backend cannot be reached.
var ErrUnavailable = errors.New("marker store unavailable")

// KeyValueStore holds dedup markers. A ttl of zero means the marker lives as
// long as the store's natural scope (a browser session for cookies, forever
// for server stores).
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value bool, found bool, err error)
	Set(ctx context.Context, key string, value bool, ttl time.Duration) error
}

// AtomicStore is implemented by stores that can check-and-set in one step.
type AtomicStore interface {
	KeyValueStore
	// SetIfAbsent stores value under key unless a live marker with value true
	// already exists. It reports whether this call claimed the key.
	SetIfAbsent(ctx context.Context, key string, value bool, ttl time.Duration) (bool, error)
}

// Namespace prefixes every key before it reaches store. Atomic stores stay
// atomic.
func Namespace(store KeyValueStore, prefix string) KeyValueStore {
	ns := namespaced{store: store, prefix: prefix}
	if atomic, ok := store.(AtomicStore); ok {
		return atomicNamespaced{namespaced: ns, atomic: atomic}
	}
	return ns
}

type namespaced struct {
	store  KeyValueStore
	prefix string
}

func (n namespaced) Get(ctx context.Context, key string) (bool, bool, error) {
	return n.store.Get(ctx, n.prefix+key)
}

func (n namespaced) Set(ctx context.Context, key string, value bool, ttl time.Duration) error {
	return n.store.Set(ctx, n.prefix+key, value, ttl)
}

type atomicNamespaced struct {
	namespaced
	atomic AtomicStore
}

func (n atomicNamespaced) SetIfAbsent(ctx context.Context, key string, value bool, ttl time.Duration) (bool, error) {
	return n.atomic.SetIfAbsent(ctx, n.prefix+key, value, ttl)
}

// Expiring gives writes without a ttl the default ttl instead. Used for
// session markers in stores that would otherwise keep them forever.
func Expiring(store KeyValueStore, ttl time.Duration) KeyValueStore {
	e := expiring{store: store, ttl: ttl}
	if atomic, ok := store.(AtomicStore); ok {
		return atomicExpiring{expiring: e, atomic: atomic}
	}
	return e
}

type expiring struct {
	store KeyValueStore
	ttl   time.Duration
}

func (e expiring) Get(ctx context.Context, key string) (bool, bool, error) {
	return e.store.Get(ctx, key)
}

func (e expiring) Set(ctx context.Context, key string, value bool, ttl time.Duration) error {
	return e.store.Set(ctx, key, value, e.or(ttl))
}

func (e expiring) or(ttl time.Duration) time.Duration {
	if ttl > 0 {
		return ttl
	}
	return e.ttl
}

type atomicExpiring struct {
	expiring
	atomic AtomicStore
}

func (e atomicExpiring) SetIfAbsent(ctx context.Context, key string, value bool, ttl time.Duration) (bool, error) {
	return e.atomic.SetIfAbsent(ctx, key, value, e.or(ttl))
}
