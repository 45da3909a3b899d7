// internal/application/usecase/wishlist_usecase.go
package usecase

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"tradehub/internal/domain/catalog"
	"tradehub/internal/domain/wishlist"
)

const wishlistStorageKey = "wishlist"

// WishlistUsecase owns the wishlist with the same write-through pattern as
// the cart: mutate under the mutex, persist locally before returning, push to
// the sync port best-effort.
type WishlistUsecase struct {
	mu       sync.Mutex
	wishlist *wishlist.Wishlist
	local    LocalStore
	sync     SyncPort
	sessions *SessionStore
	cart     *CartUsecase
}

// NewWishlistUsecase hydrates from the local store; cartUC enables
// MoveToCart.
func NewWishlistUsecase(local LocalStore, syncPort SyncPort, sessions *SessionStore, cartUC *CartUsecase) *WishlistUsecase {
	if syncPort == nil {
		syncPort = NopSync{}
	}
	uc := &WishlistUsecase{
		wishlist: wishlist.New(),
		local:    local,
		sync:     syncPort,
		sessions: sessions,
		cart:     cartUC,
	}
	uc.hydrate()
	return uc
}

func (uc *WishlistUsecase) hydrate() {
	if uc.local == nil {
		return
	}
	raw, ok := uc.local.Get(wishlistStorageKey)
	if !ok {
		return
	}
	var w wishlist.Wishlist
	if err := json.Unmarshal(raw, &w); err != nil {
		log.Printf("[wishlist] hydrate: broken payload, using empty wishlist: %v", err)
		return
	}
	if err := w.Validate(); err != nil {
		log.Printf("[wishlist] hydrate: invalid payload, using empty wishlist: %v", err)
		return
	}
	uc.wishlist = &w
}

// AddToWishlist is idempotent: adding a product already present changes
// nothing.
func (uc *WishlistUsecase) AddToWishlist(ctx context.Context, snap catalog.ProductSnapshot) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.wishlist.Contains(snap.ProductID) {
		return
	}
	uc.wishlist.Add(snap)
	uc.persistLocked(ctx)
}

// RemoveFromWishlist is a no-op when absent.
func (uc *WishlistUsecase) RemoveFromWishlist(ctx context.Context, productID string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if !uc.wishlist.Contains(productID) {
		return
	}
	uc.wishlist.Remove(productID)
	uc.persistLocked(ctx)
}

// IsInWishlist reports membership. Pure.
func (uc *WishlistUsecase) IsInWishlist(productID string) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.wishlist.Contains(productID)
}

// Wishlist returns a copy of the current wishlist.
func (uc *WishlistUsecase) Wishlist() *wishlist.Wishlist {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.wishlist.Clone()
}

// MoveToCart moves the product into the cart as one user-visible transition:
// add to cart, then remove from the wishlist, both persisted before
// returning. No-op when productID is not in the wishlist. Holding uc.mu for
// the whole move keeps other wishlist calls from interleaving; the cart
// usecase's own mutex covers the cart side.
func (uc *WishlistUsecase) MoveToCart(ctx context.Context, productID string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	snap, ok := uc.wishlist.Get(productID)
	if !ok {
		return nil
	}
	if uc.cart != nil {
		if err := uc.cart.AddToCart(ctx, snap, 1); err != nil {
			return err
		}
	}
	uc.wishlist.Remove(productID)
	uc.persistLocked(ctx)
	return nil
}

func (uc *WishlistUsecase) persistLocked(ctx context.Context) {
	if uc.local != nil {
		raw, err := json.Marshal(uc.wishlist)
		if err != nil {
			log.Printf("[wishlist] persist: marshal failed: %v", err)
		} else {
			uc.local.Set(wishlistStorageKey, raw)
		}
	}
	if uc.sessions == nil {
		return
	}
	st := uc.sessions.Current()
	if st.Session == nil {
		return
	}
	if err := uc.sync.PushWishlist(ctx, *st.Session, uc.wishlist.Clone()); err != nil {
		log.Printf("[wishlist] remote sync failed (local state kept): %v", err)
	}
}
