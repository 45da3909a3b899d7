// internal/domain/wishlist/entity.go
package wishlist

import (
	"errors"
	"strings"

	"tradehub/internal/domain/catalog"
)

var ErrInvalidWishlist = errors.New("wishlist: invalid")

// Wishlist is a set of product snapshots, unique by productId.
// Insertion order is preserved for display but carries no semantics.
type Wishlist struct {
	Items []catalog.ProductSnapshot `json:"items" firestore:"items"`
}

// New creates an empty wishlist.
func New() *Wishlist {
	return &Wishlist{Items: []catalog.ProductSnapshot{}}
}

// Add appends snap unless its productId is already present (idempotent).
func (w *Wishlist) Add(snap catalog.ProductSnapshot) {
	if w == nil {
		return
	}
	pid := strings.TrimSpace(snap.ProductID)
	if pid == "" || w.Contains(pid) {
		return
	}
	snap.ProductID = pid
	w.Items = append(w.Items, snap)
}

// Remove drops the entry if present; no-op otherwise.
func (w *Wishlist) Remove(productID string) {
	if w == nil || len(w.Items) == 0 {
		return
	}
	pid := strings.TrimSpace(productID)
	out := w.Items[:0]
	for _, it := range w.Items {
		if it.ProductID != pid {
			out = append(out, it)
		}
	}
	w.Items = out
}

// Contains reports whether productID is in the wishlist.
func (w *Wishlist) Contains(productID string) bool {
	_, ok := w.Get(productID)
	return ok
}

// Get returns the snapshot for productID, if present.
func (w *Wishlist) Get(productID string) (catalog.ProductSnapshot, bool) {
	if w == nil {
		return catalog.ProductSnapshot{}, false
	}
	pid := strings.TrimSpace(productID)
	for _, it := range w.Items {
		if it.ProductID == pid {
			return it, true
		}
	}
	return catalog.ProductSnapshot{}, false
}

// Validate checks the wishlist invariant: non-empty unique productIds. Used
// when loading persisted state from an untrusted medium.
func (w *Wishlist) Validate() error {
	if w == nil {
		return ErrInvalidWishlist
	}
	seen := make(map[string]struct{}, len(w.Items))
	for _, it := range w.Items {
		pid := strings.TrimSpace(it.ProductID)
		if pid == "" {
			return ErrInvalidWishlist
		}
		if _, dup := seen[pid]; dup {
			return ErrInvalidWishlist
		}
		seen[pid] = struct{}{}
	}
	return nil
}

// Clone returns a deep copy.
func (w *Wishlist) Clone() *Wishlist {
	if w == nil {
		return New()
	}
	out := &Wishlist{Items: make([]catalog.ProductSnapshot, len(w.Items))}
	copy(out.Items, w.Items)
	return out
}
