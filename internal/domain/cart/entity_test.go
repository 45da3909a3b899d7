// internal/domain/cart/entity_test.go
package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradehub/internal/domain/catalog"
)

func snap(id string, price float64) catalog.ProductSnapshot {
	return catalog.ProductSnapshot{ProductID: id, Name: "p-" + id, Price: price}
}

func TestCartAddMergesByProductID(t *testing.T) {
	c := New()

	require.NoError(t, c.Add(snap("p1", 10), 1))
	require.NoError(t, c.Add(snap("p1", 10), 2))
	require.NoError(t, c.Add(snap("p2", 5), 1))

	require.Len(t, c.Items, 2)
	it, ok := c.Get("p1")
	require.True(t, ok)
	assert.Equal(t, 3, it.Quantity)
}

func TestCartAddRejectsInvalid(t *testing.T) {
	c := New()
	assert.ErrorIs(t, c.Add(snap("", 10), 1), ErrInvalidCart)
	assert.ErrorIs(t, c.Add(snap("p1", 10), 0), ErrInvalidCart)
	assert.ErrorIs(t, c.Add(snap("p1", 10), -2), ErrInvalidCart)
	assert.Empty(t, c.Items)
}

func TestCartSetQuantity(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(snap("p1", 10), 2))

	// absolute, not delta
	c.SetQuantity("p1", 5)
	it, _ := c.Get("p1")
	assert.Equal(t, 5, it.Quantity)

	// qty <= 0 removes
	c.SetQuantity("p1", 0)
	_, ok := c.Get("p1")
	assert.False(t, ok)

	// absent id is a silent no-op
	c.SetQuantity("ghost", 3)
	assert.Empty(t, c.Items)
}

func TestCartRemoveAndClear(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(snap("p1", 10), 1))
	require.NoError(t, c.Add(snap("p2", 20), 1))

	c.Remove("p1")
	assert.Len(t, c.Items, 1)
	c.Remove("p1") // no-op when absent
	assert.Len(t, c.Items, 1)

	c.Clear()
	assert.Empty(t, c.Items)
	assert.Zero(t, c.Total())
	assert.Zero(t, c.Count())
}

// Invariants over arbitrary mutation sequences: at most one line item per
// productId, every quantity >= 1, and Total matches an independent recompute.
func TestCartInvariantsOverMutationSequence(t *testing.T) {
	type step struct {
		op  string
		id  string
		qty int
	}
	steps := []step{
		{"add", "p1", 1}, {"add", "p2", 3}, {"add", "p1", 2},
		{"set", "p2", 1}, {"add", "p3", 4}, {"remove", "p1", 0},
		{"set", "p3", 0}, {"add", "p1", 1}, {"set", "ghost", 7},
		{"add", "p4", 2}, {"set", "p4", 9}, {"remove", "nope", 0},
	}

	prices := map[string]float64{"p1": 9.99, "p2": 25, "p3": 3.5, "p4": 100}
	c := New()
	for _, s := range steps {
		switch s.op {
		case "add":
			require.NoError(t, c.Add(snap(s.id, prices[s.id]), s.qty))
		case "set":
			c.SetQuantity(s.id, s.qty)
		case "remove":
			c.Remove(s.id)
		}

		seen := map[string]bool{}
		var total float64
		count := 0
		for _, it := range c.Items {
			assert.False(t, seen[it.ProductID], "duplicate line item %s", it.ProductID)
			seen[it.ProductID] = true
			assert.GreaterOrEqual(t, it.Quantity, 1)
			total += it.UnitPrice * float64(it.Quantity)
			count += it.Quantity
		}
		assert.InDelta(t, total, c.Total(), 1e-9)
		assert.Equal(t, count, c.Count())
	}
}

func TestCartCloneIsIndependent(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(snap("p1", 10), 1))

	cp := c.Clone()
	cp.SetQuantity("p1", 5)

	it, _ := c.Get("p1")
	assert.Equal(t, 1, it.Quantity)
}
