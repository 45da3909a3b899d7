// internal/application/usecase/cart_usecase_test.go
package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradehub/internal/domain/cart"
	"tradehub/internal/domain/catalog"
	"tradehub/internal/domain/session"
	"tradehub/internal/domain/wishlist"
)

// fakeLocal is an in-memory LocalStore with write counters.
type fakeLocal struct {
	mu      sync.Mutex
	data    map[string][]byte
	sets    int
	removes int
}

func newFakeLocal() *fakeLocal {
	return &fakeLocal{data: map[string][]byte{}}
}

func (f *fakeLocal) Get(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

func (f *fakeLocal) Set(key string, value []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = append([]byte(nil), value...)
	f.sets++
}

func (f *fakeLocal) Remove(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	f.removes++
}

// recordingSync counts pushes and can be told to fail.
type recordingSync struct {
	cartPushes     int
	wishlistPushes int
	fail           error
}

func (r *recordingSync) PushCart(context.Context, session.Session, *cart.Cart) error {
	r.cartPushes++
	return r.fail
}

func (r *recordingSync) PushWishlist(context.Context, session.Session, *wishlist.Wishlist) error {
	r.wishlistPushes++
	return r.fail
}

func psnap(id string, price float64) catalog.ProductSnapshot {
	return catalog.ProductSnapshot{ProductID: id, Name: "p-" + id, Price: price}
}

// storedCart decodes what the local store currently holds under the cart key.
func storedCart(t *testing.T, local *fakeLocal) *cart.Cart {
	t.Helper()
	raw, ok := local.Get(cartStorageKey)
	require.True(t, ok, "cart key missing from local store")
	var c cart.Cart
	require.NoError(t, json.Unmarshal(raw, &c))
	return &c
}

// Every mutation must be readable back from the local store before the call
// returns.
func TestCartWritesThroughOnEveryMutation(t *testing.T) {
	ctx := context.Background()
	local := newFakeLocal()
	uc := NewCartUsecase(local, nil, nil)

	require.NoError(t, uc.AddToCart(ctx, psnap("p1", 10), 2))
	assert.Equal(t, uc.Cart(), storedCart(t, local))

	uc.UpdateQuantity(ctx, "p1", 5)
	assert.Equal(t, uc.Cart(), storedCart(t, local))

	require.NoError(t, uc.AddToCart(ctx, psnap("p2", 3), 1))
	uc.RemoveFromCart(ctx, "p1")
	assert.Equal(t, uc.Cart(), storedCart(t, local))

	uc.ClearCart(ctx)
	assert.Empty(t, storedCart(t, local).Items)
}

func TestCartHydratesFromLocalStore(t *testing.T) {
	ctx := context.Background()
	local := newFakeLocal()

	first := NewCartUsecase(local, nil, nil)
	require.NoError(t, first.AddToCart(ctx, psnap("p1", 9.99), 3))

	// a fresh usecase over the same store sees the same cart
	second := NewCartUsecase(local, nil, nil)
	assert.Equal(t, first.Cart(), second.Cart())
	assert.Equal(t, 3, second.Count())
}

func TestCartHydrateFallsBackOnBrokenPayload(t *testing.T) {
	local := newFakeLocal()
	local.Set(cartStorageKey, []byte("{not json"))

	uc := NewCartUsecase(local, nil, nil)
	assert.Empty(t, uc.Cart().Items)
	assert.Zero(t, uc.Total())
}

// A payload that decodes but breaks the cart invariants (quantity 0,
// duplicate productIds) must also fall back to the empty cart; otherwise the
// stored state would fail validation on every later Add.
func TestCartHydrateRejectsInvariantViolations(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		payload string
	}{
		{"zero quantity", `{"items":[{"productId":"p1","unitPrice":10,"quantity":0}]}`},
		{"negative quantity", `{"items":[{"productId":"p1","unitPrice":10,"quantity":-2}]}`},
		{"duplicate product", `{"items":[{"productId":"p1","unitPrice":10,"quantity":1},{"productId":"p1","unitPrice":10,"quantity":2}]}`},
		{"blank product id", `{"items":[{"productId":"  ","unitPrice":10,"quantity":1}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local := newFakeLocal()
			local.Set(cartStorageKey, []byte(tt.payload))

			uc := NewCartUsecase(local, nil, nil)
			assert.Empty(t, uc.Cart().Items)

			// the cart stays usable
			require.NoError(t, uc.AddToCart(ctx, psnap("p2", 5), 1))
			assert.Equal(t, 1, uc.Count())
		})
	}
}

func TestAddToCartTreatsZeroQuantityAsOne(t *testing.T) {
	ctx := context.Background()
	uc := NewCartUsecase(newFakeLocal(), nil, nil)

	require.NoError(t, uc.AddToCart(ctx, psnap("p1", 10), 0))
	it, ok := uc.Cart().Get("p1")
	require.True(t, ok)
	assert.Equal(t, 1, it.Quantity)
}

func TestCartOwnerIDStableAcrossRuns(t *testing.T) {
	local := newFakeLocal()

	a := NewCartUsecase(local, nil, nil)
	b := NewCartUsecase(local, nil, nil)
	require.NotEmpty(t, a.OwnerID())
	assert.Equal(t, a.OwnerID(), b.OwnerID())

	// signed-in sessions take over as owner
	sessions := NewSessionStore()
	c := NewCartUsecase(local, nil, sessions)
	sess := session.New("uid-1", "u@example.com", "U")
	sessions.publish(SessionState{Known: true, Session: &sess})
	assert.Equal(t, "uid-1", c.OwnerID())
}

func TestCartSyncsOnlyWhenSignedIn(t *testing.T) {
	ctx := context.Background()
	local := newFakeLocal()
	sync := &recordingSync{}
	sessions := NewSessionStore()
	uc := NewCartUsecase(local, sync, sessions)

	// anonymous: no push
	require.NoError(t, uc.AddToCart(ctx, psnap("p1", 10), 1))
	assert.Zero(t, sync.cartPushes)

	sess := session.New("uid-1", "u@example.com", "U")
	sessions.publish(SessionState{Known: true, Session: &sess})

	require.NoError(t, uc.AddToCart(ctx, psnap("p2", 5), 1))
	assert.Equal(t, 1, sync.cartPushes)
}

// A failing sync push never blocks or rolls back the local transition.
func TestCartSyncFailureKeepsLocalState(t *testing.T) {
	ctx := context.Background()
	local := newFakeLocal()
	sync := &recordingSync{fail: errors.New("remote down")}
	sessions := NewSessionStore()
	sess := session.New("uid-1", "u@example.com", "U")
	sessions.publish(SessionState{Known: true, Session: &sess})

	uc := NewCartUsecase(local, sync, sessions)
	require.NoError(t, uc.AddToCart(ctx, psnap("p1", 10), 2))

	assert.Equal(t, 1, sync.cartPushes)
	assert.Equal(t, 2, uc.Count())
	assert.Equal(t, uc.Cart(), storedCart(t, local))
}
