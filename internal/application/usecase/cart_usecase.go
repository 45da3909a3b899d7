// internal/application/usecase/cart_usecase.go
package usecase

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"

	"tradehub/internal/domain/cart"
	"tradehub/internal/domain/catalog"
)

const (
	cartStorageKey    = "cart"
	ownerIDStorageKey = "ownerId"
)

// CartUsecase owns the cart: deterministic, synchronous state transitions,
// each one written through to the local store before the call returns, then
// pushed to the sync port (best-effort).
//
// All mutation runs under one mutex, so no transition interleaves with
// another; this also makes MoveToCart (in wishlist_usecase.go) atomic with
// respect to concurrent reducer calls.
type CartUsecase struct {
	mu       sync.Mutex
	cart     *cart.Cart
	local    LocalStore
	sync     SyncPort
	sessions *SessionStore
	ownerID  string
}

// NewCartUsecase hydrates the cart from the local store, falling back to an
// empty cart on any read/decode failure.
func NewCartUsecase(local LocalStore, syncPort SyncPort, sessions *SessionStore) *CartUsecase {
	if syncPort == nil {
		syncPort = NopSync{}
	}
	uc := &CartUsecase{
		cart:     cart.New(),
		local:    local,
		sync:     syncPort,
		sessions: sessions,
	}
	uc.hydrate()
	uc.ownerID = resolveOwnerID(local)
	return uc
}

func (uc *CartUsecase) hydrate() {
	if uc.local == nil {
		return
	}
	raw, ok := uc.local.Get(cartStorageKey)
	if !ok {
		return
	}
	var c cart.Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		log.Printf("[cart] hydrate: broken cart payload, using empty cart: %v", err)
		return
	}
	// Persisted state is untrusted: a payload that decodes but breaks the
	// cart invariants would poison every later Add.
	if err := c.Validate(); err != nil {
		log.Printf("[cart] hydrate: invalid cart payload, using empty cart: %v", err)
		return
	}
	uc.cart = &c
}

// AddToCart adds qty of product (qty < 1 is treated as 1).
func (uc *CartUsecase) AddToCart(ctx context.Context, snap catalog.ProductSnapshot, qty int) error {
	if qty < 1 {
		qty = 1
	}
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if err := uc.cart.Add(snap, qty); err != nil {
		return err
	}
	uc.persistLocked(ctx)
	return nil
}

// UpdateQuantity sets the absolute quantity; qty <= 0 removes the item.
// Absent productId is a silent no-op by design (keeps the UI simple).
func (uc *CartUsecase) UpdateQuantity(ctx context.Context, productID string, qty int) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.cart.SetQuantity(productID, qty)
	uc.persistLocked(ctx)
}

// RemoveFromCart removes the item if present; no-op otherwise.
func (uc *CartUsecase) RemoveFromCart(ctx context.Context, productID string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.cart.Remove(productID)
	uc.persistLocked(ctx)
}

// ClearCart empties the cart.
func (uc *CartUsecase) ClearCart(ctx context.Context) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.cart.Clear()
	uc.persistLocked(ctx)
}

// Cart returns a copy of the current cart.
func (uc *CartUsecase) Cart() *cart.Cart {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.cart.Clone()
}

// Total returns Σ unitPrice × quantity. Pure.
func (uc *CartUsecase) Total() float64 {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.cart.Total()
}

// Count returns Σ quantity. Pure.
func (uc *CartUsecase) Count() int {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.cart.Count()
}

// OwnerID is the stable local owner identifier (session id once signed in,
// otherwise a uuid minted on first run and kept in the local store), used by
// sync implementations to attribute anonymous carts.
func (uc *CartUsecase) OwnerID() string {
	if uc.sessions != nil {
		if st := uc.sessions.Current(); st.Session != nil {
			return st.Session.ID
		}
	}
	return uc.ownerID
}

// persistLocked writes through to the local store synchronously, then pushes
// to the sync port. Local persistence failures are logged by the store and
// never block the transition; sync failures are logged here.
func (uc *CartUsecase) persistLocked(ctx context.Context) {
	if uc.local != nil {
		raw, err := json.Marshal(uc.cart)
		if err != nil {
			log.Printf("[cart] persist: marshal failed: %v", err)
		} else {
			uc.local.Set(cartStorageKey, raw)
		}
	}
	if uc.sessions == nil {
		return
	}
	st := uc.sessions.Current()
	if st.Session == nil {
		return
	}
	if err := uc.sync.PushCart(ctx, *st.Session, uc.cart.Clone()); err != nil {
		log.Printf("[cart] remote sync failed (local state kept): %v", err)
	}
}

// resolveOwnerID loads the anonymous owner id, minting one on first run.
func resolveOwnerID(local LocalStore) string {
	if local == nil {
		return uuid.NewString()
	}
	if raw, ok := local.Get(ownerIDStorageKey); ok {
		var id string
		if err := json.Unmarshal(raw, &id); err == nil && id != "" {
			return id
		}
	}
	id := uuid.NewString()
	if raw, err := json.Marshal(id); err == nil {
		local.Set(ownerIDStorageKey, raw)
	}
	return id
}
