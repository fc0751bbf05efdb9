package shopping

import (
	"testing"

	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_Add(t *testing.T) {
	c := NewCart(uuid.New())
	pid := uuid.New()

	require.NoError(t, c.Add(pid, 2, 10))
	require.NoError(t, c.Add(pid, 3, 10))
	assert.Equal(t, 5, c.QuantityOf(pid))
	assert.Len(t, c.Items, 1)

	t.Run("merged quantity bounded by stock", func(t *testing.T) {
		err := c.Add(pid, 6, 10)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Equal(t, 5, c.QuantityOf(pid))
	})

	t.Run("merged quantity bounded by line maximum", func(t *testing.T) {
		assert.Error(t, c.Add(pid, 95, 1000))
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		assert.Error(t, c.Add(pid, 0, 10))
	})
}

func TestCart_SetQuantity(t *testing.T) {
	c := NewCart(uuid.New())
	pid := uuid.New()
	require.NoError(t, c.Add(pid, 1, 5))

	require.NoError(t, c.SetQuantity(pid, 4, 5))
	assert.Equal(t, 4, c.QuantityOf(pid))

	assert.Error(t, c.SetQuantity(uuid.New(), 1, 5))

	require.NoError(t, c.SetQuantity(pid, 0, 5))
	assert.True(t, c.IsEmpty())
}

func TestCart_RemoveAndClear(t *testing.T) {
	c := NewCart(uuid.New())
	a, b := uuid.New(), uuid.New()
	require.NoError(t, c.Add(a, 1, 5))
	require.NoError(t, c.Add(b, 1, 5))
	assert.Equal(t, []uuid.UUID{a, b}, c.ProductIDs())

	require.NoError(t, c.Remove(a))
	assert.Error(t, c.Remove(a))
	c.Clear()
	assert.True(t, c.IsEmpty())
}

func TestWishlist(t *testing.T) {
	w := NewWishlist(uuid.New())
	pid := uuid.New()

	added, err := w.Add(pid)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = w.Add(pid)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Len(t, w.Entries, 1)

	assert.True(t, w.Remove(pid))
	assert.False(t, w.Remove(pid))
}
