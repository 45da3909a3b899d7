// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"strings"

	"tradehub/internal/domain/catalog"
)

var (
	ErrInvalidCart = errors.New("cart: invalid")
)

// LineItem represents "one product entry" in a cart.
// Quantity is always >= 1; an item reduced to zero is removed, never retained.
type LineItem struct {
	ProductID string                  `json:"productId" firestore:"productId"`
	UnitPrice float64                 `json:"unitPrice" firestore:"unitPrice"`
	Quantity  int                     `json:"quantity" firestore:"quantity"`
	Snapshot  catalog.ProductSnapshot `json:"snapshot" firestore:"snapshot"`
}

// Cart is an ordered sequence of line items, unique by productId.
// Mutation happens only through the methods below; callers never edit Items
// directly.
type Cart struct {
	Items []LineItem `json:"items" firestore:"items"`
}

// New creates an empty cart.
func New() *Cart {
	return &Cart{Items: []LineItem{}}
}

// Add increases quantity for productId, or appends a new line item.
// qty must be >= 1.
func (c *Cart) Add(snap catalog.ProductSnapshot, qty int) error {
	if c == nil {
		return ErrInvalidCart
	}
	pid := strings.TrimSpace(snap.ProductID)
	if pid == "" || qty <= 0 {
		return ErrInvalidCart
	}
	if c.Items == nil {
		c.Items = []LineItem{}
	}

	idx := findItemIndex(c.Items, pid)
	if idx >= 0 {
		c.Items[idx].Quantity += qty
	} else {
		snap.ProductID = pid
		c.Items = append(c.Items, LineItem{
			ProductID: pid,
			UnitPrice: snap.Price,
			Quantity:  qty,
			Snapshot:  snap,
		})
	}
	return c.Validate()
}

// SetQuantity sets the absolute quantity for productId.
// qty <= 0 removes the item. Absent productId is a silent no-op.
func (c *Cart) SetQuantity(productID string, qty int) {
	if c == nil {
		return
	}
	pid := strings.TrimSpace(productID)
	if pid == "" {
		return
	}
	if qty <= 0 {
		c.Remove(pid)
		return
	}
	if idx := findItemIndex(c.Items, pid); idx >= 0 {
		c.Items[idx].Quantity = qty
	}
}

// Remove drops the item if present; no-op otherwise.
func (c *Cart) Remove(productID string) {
	if c == nil || len(c.Items) == 0 {
		return
	}
	pid := strings.TrimSpace(productID)
	out := c.Items[:0]
	for _, it := range c.Items {
		if it.ProductID != pid {
			out = append(out, it)
		}
	}
	c.Items = out
}

// Clear empties the cart.
func (c *Cart) Clear() {
	if c == nil {
		return
	}
	c.Items = []LineItem{}
}

// Total returns Σ unitPrice × quantity. Pure.
func (c *Cart) Total() float64 {
	if c == nil {
		return 0
	}
	var sum float64
	for _, it := range c.Items {
		sum += it.UnitPrice * float64(it.Quantity)
	}
	return sum
}

// Count returns Σ quantity. Pure.
func (c *Cart) Count() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// Get returns the line item for productID, if present.
func (c *Cart) Get(productID string) (LineItem, bool) {
	if c == nil {
		return LineItem{}, false
	}
	if idx := findItemIndex(c.Items, strings.TrimSpace(productID)); idx >= 0 {
		return c.Items[idx], true
	}
	return LineItem{}, false
}

// Clone returns a deep copy, safe for callers to hold across mutations.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return New()
	}
	out := &Cart{Items: make([]LineItem, len(c.Items))}
	copy(out.Items, c.Items)
	return out
}

// Validate checks the cart invariants: non-empty unique productIds and every
// quantity >= 1. Used after every Add and when loading persisted state from
// an untrusted medium.
func (c *Cart) Validate() error {
	if c == nil {
		return ErrInvalidCart
	}
	seen := make(map[string]struct{}, len(c.Items))
	for _, it := range c.Items {
		if strings.TrimSpace(it.ProductID) == "" || it.Quantity < 1 {
			return ErrInvalidCart
		}
		if _, dup := seen[it.ProductID]; dup {
			return ErrInvalidCart
		}
		seen[it.ProductID] = struct{}{}
	}
	return nil
}

func findItemIndex(items []LineItem, productID string) int {
	for i, it := range items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}
