// internal/domain/wishlist/entity_test.go
package wishlist

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tradehub/internal/domain/catalog"
)

func snap(id string) catalog.ProductSnapshot {
	return catalog.ProductSnapshot{ProductID: id, Name: "p-" + id, Price: 10}
}

func TestWishlistAddIsIdempotent(t *testing.T) {
	w := New()
	w.Add(snap("p1"))
	once := append([]catalog.ProductSnapshot(nil), w.Items...)

	w.Add(snap("p1"))
	assert.Equal(t, once, w.Items)
	assert.Len(t, w.Items, 1)
}

func TestWishlistPreservesInsertionOrder(t *testing.T) {
	w := New()
	w.Add(snap("b"))
	w.Add(snap("a"))
	w.Add(snap("c"))

	ids := make([]string, 0, len(w.Items))
	for _, it := range w.Items {
		ids = append(ids, it.ProductID)
	}
	assert.Equal(t, []string{"b", "a", "c"}, ids)
}

func TestWishlistRemoveAndContains(t *testing.T) {
	w := New()
	w.Add(snap("p1"))

	assert.True(t, w.Contains("p1"))
	w.Remove("p1")
	assert.False(t, w.Contains("p1"))

	// absent remove is a no-op
	w.Remove("p1")
	assert.Empty(t, w.Items)
}

func TestWishlistIgnoresEmptyID(t *testing.T) {
	w := New()
	w.Add(catalog.ProductSnapshot{ProductID: "   "})
	assert.Empty(t, w.Items)
}
