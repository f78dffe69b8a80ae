package dedup

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datalayer/internal/logger"
)

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (bool, bool, error) {
	return false, false, ErrUnavailable
}

func (brokenStore) Set(context.Context, string, bool, time.Duration) error {
	return ErrUnavailable
}

// plainStore hides SetIfAbsent so the guard takes the get-then-set path.
type plainStore struct{ KeyValueStore }

func newMarkers() Markers {
	return Markers{
		Persistent: NewMemoryStore(),
		Session:    NewMemoryStore(),
		Server:     NewMemoryStore(),
	}
}

type counter struct {
	builds int
	emits  int
}

func (c *counter) build() error { c.builds++; return nil }
func (c *counter) emit() error  { c.emits++; return nil }

func TestCheckoutOnce(t *testing.T) {
	g := NewGuard(logger.NewNop())
	m := newMarkers()
	ctx := context.Background()
	var c counter

	fired, err := g.CheckoutOnce(ctx, m, c.emit)
	require.NoError(t, err)
	assert.True(t, fired)

	fired, err = g.CheckoutOnce(ctx, m, c.emit)
	require.NoError(t, err)
	assert.False(t, fired)
	assert.Equal(t, 1, c.emits)

	value, found, _ := m.Persistent.Get(ctx, CheckoutMarker)
	assert.True(t, found)
	assert.True(t, value)
}

func TestCheckoutOnceEmitErrorLeavesMarkerUnset(t *testing.T) {
	g := NewGuard(logger.NewNop())
	m := newMarkers()
	boom := errors.New("sink down")

	_, err := g.CheckoutOnce(context.Background(), m, func() error { return boom })
	assert.ErrorIs(t, err, boom)

	_, found, _ := m.Persistent.Get(context.Background(), CheckoutMarker)
	assert.False(t, found)
}

func TestPurchaseReloadBuildsAndEmitsOnce(t *testing.T) {
	for name, server := range map[string]KeyValueStore{
		"atomic": NewMemoryStore(),
		"plain":  plainStore{NewMemoryStore()},
	} {
		t.Run(name, func(t *testing.T) {
			g := NewGuard(logger.NewNop())
			m := newMarkers()
			m.Server = server
			ctx := context.Background()
			var c counter

			out, err := g.PurchaseOnce(ctx, m, "1001", c.build, c.emit)
			require.NoError(t, err)
			assert.Equal(t, PurchaseOutcome{Built: true, Emitted: true}, out)

			out, err = g.PurchaseOnce(ctx, m, "1001", c.build, c.emit)
			require.NoError(t, err)
			assert.Equal(t, PurchaseOutcome{}, out)

			assert.Equal(t, 1, c.builds)
			assert.Equal(t, 1, c.emits)
		})
	}
}

func TestPurchaseNewTabSkipsBuildAndEmitsAtMostOnce(t *testing.T) {
	g := NewGuard(logger.NewNop())
	m := newMarkers()
	ctx := context.Background()
	var c counter

	_, err := g.PurchaseOnce(ctx, m, "1001", c.build, c.emit)
	require.NoError(t, err)

	// new tab: fresh session marker store, same server marker
	m.Session = NewMemoryStore()
	out, err := g.PurchaseOnce(ctx, m, "1001", c.build, c.emit)
	require.NoError(t, err)

	assert.False(t, out.Built)
	assert.False(t, out.Emitted)
	assert.Equal(t, 1, c.builds)
	assert.LessOrEqual(t, c.emits, 1)
}

func TestPurchaseClientMarkerSkipsEmissionRegardlessOfServer(t *testing.T) {
	g := NewGuard(logger.NewNop())
	m := newMarkers()
	ctx := context.Background()
	var c counter

	_, err := g.PurchaseOnce(ctx, m, "7", c.build, c.emit)
	require.NoError(t, err)

	// server session lost, browser still remembers the push
	m.Server = NewMemoryStore()
	out, err := g.PurchaseOnce(ctx, m, "7", c.build, c.emit)
	require.NoError(t, err)

	assert.True(t, out.Built)
	assert.False(t, out.Emitted)
	assert.Equal(t, 2, c.builds)
	assert.Equal(t, 1, c.emits)
}

func TestPurchaseResetsCheckoutMarker(t *testing.T) {
	g := NewGuard(logger.NewNop())
	m := newMarkers()
	ctx := context.Background()
	var checkout, purchase counter

	fired, err := g.CheckoutOnce(ctx, m, checkout.emit)
	require.NoError(t, err)
	require.True(t, fired)

	fired, err = g.CheckoutOnce(ctx, m, checkout.emit)
	require.NoError(t, err)
	require.False(t, fired)

	_, err = g.PurchaseOnce(ctx, m, "55", purchase.build, purchase.emit)
	require.NoError(t, err)

	value, found, _ := m.Persistent.Get(ctx, CheckoutMarker)
	assert.True(t, found)
	assert.False(t, value)

	fired, err = g.CheckoutOnce(ctx, m, checkout.emit)
	require.NoError(t, err)
	assert.True(t, fired, "checkout fires again after a purchase")
	assert.Equal(t, 2, checkout.emits)
}

func TestPurchaseBuildErrorReleasesServerMarker(t *testing.T) {
	g := NewGuard(logger.NewNop())
	m := newMarkers()
	ctx := context.Background()
	boom := errors.New("no order")
	var c counter

	_, err := g.PurchaseOnce(ctx, m, "9", func() error { return boom }, c.emit)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.emits)

	out, err := g.PurchaseOnce(ctx, m, "9", c.build, c.emit)
	require.NoError(t, err)
	assert.Equal(t, PurchaseOutcome{Built: true, Emitted: true}, out)
}

func TestPurchaseEmitErrorKeepsClientMarkerUnset(t *testing.T) {
	g := NewGuard(logger.NewNop())
	m := newMarkers()
	ctx := context.Background()
	boom := errors.New("sink down")
	var c counter

	_, err := g.PurchaseOnce(ctx, m, "3", c.build, func() error { return boom })
	assert.ErrorIs(t, err, boom)

	_, found, _ := m.Session.Get(ctx, clientPurchasePrefix+"3")
	assert.False(t, found)
}

func TestStoreFailuresFailOpen(t *testing.T) {
	g := NewGuard(logger.NewNop())
	m := Markers{Persistent: brokenStore{}, Session: brokenStore{}, Server: brokenStore{}}
	ctx := context.Background()
	var c counter

	fired, err := g.CheckoutOnce(ctx, m, c.emit)
	require.NoError(t, err)
	assert.True(t, fired)

	out, err := g.PurchaseOnce(ctx, m, "1", c.build, c.emit)
	require.NoError(t, err)
	assert.Equal(t, PurchaseOutcome{Built: true, Emitted: true}, out)
}

func TestConcurrentPurchaseBuildsOnce(t *testing.T) {
	for name, server := range map[string]KeyValueStore{
		"atomic": NewMemoryStore(),
		"plain":  plainStore{NewMemoryStore()},
	} {
		t.Run(name, func(t *testing.T) {
			g := NewGuard(logger.NewNop())
			ctx := context.Background()
			var builds int32

			var wg sync.WaitGroup
			for i := 0; i < 16; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					m := Markers{Persistent: NewMemoryStore(), Session: NewMemoryStore(), Server: server}
					_, err := g.PurchaseOnce(ctx, m, "42", func() error {
						atomic.AddInt32(&builds, 1)
						return nil
					}, func() error { return nil })
					assert.NoError(t, err)
				}()
			}
			wg.Wait()

			assert.Equal(t, int32(1), atomic.LoadInt32(&builds))
			assert.Equal(t, 0, g.locks.size())
		})
	}
}

func TestPurchaseServerMarkerExpires(t *testing.T) {
	g := NewGuard(logger.NewNop())
	server := NewMemoryStore()
	clock := &fakeClock{t: time.Now()}
	server.now = clock.now

	m := newMarkers()
	m.Server = server
	m.ServerTTL = time.Hour
	ctx := context.Background()
	var c counter

	_, err := g.PurchaseOnce(ctx, m, "77", c.build, c.emit)
	require.NoError(t, err)

	clock.advance(2 * time.Hour)
	m.Session = NewMemoryStore()

	out, err := g.PurchaseOnce(ctx, m, "77", c.build, c.emit)
	require.NoError(t, err)
	assert.True(t, out.Built, "expired server marker no longer suppresses the build")
	assert.Equal(t, 2, c.builds)
}
