package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_Claim(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	t.Run("claims a new key", func(t *testing.T) {
		claimed, value, err := store.Claim(ctx, "key-1", time.Hour)
		require.NoError(t, err)
		assert.True(t, claimed)
		assert.Empty(t, value)
	})

	t.Run("reports in-flight requests with an empty value", func(t *testing.T) {
		_, _, err := store.Claim(ctx, "key-2", time.Hour)
		require.NoError(t, err)

		claimed, value, err := store.Claim(ctx, "key-2", time.Hour)
		require.NoError(t, err)
		assert.False(t, claimed)
		assert.Empty(t, value)
	})

	t.Run("returns the completed value", func(t *testing.T) {
		_, _, err := store.Claim(ctx, "key-3", time.Hour)
		require.NoError(t, err)
		require.NoError(t, store.Complete(ctx, "key-3", "order-42", time.Hour))

		claimed, value, err := store.Claim(ctx, "key-3", time.Hour)
		require.NoError(t, err)
		assert.False(t, claimed)
		assert.Equal(t, "order-42", value)
	})

	t.Run("released keys can be claimed again", func(t *testing.T) {
		_, _, err := store.Claim(ctx, "key-4", time.Hour)
		require.NoError(t, err)
		require.NoError(t, store.Release(ctx, "key-4"))

		claimed, _, err := store.Claim(ctx, "key-4", time.Hour)
		require.NoError(t, err)
		assert.True(t, claimed)
	})

	t.Run("expired keys can be claimed again", func(t *testing.T) {
		_, _, err := store.Claim(ctx, "key-5", 10*time.Millisecond)
		require.NoError(t, err)

		time.Sleep(20 * time.Millisecond)

		claimed, _, err := store.Claim(ctx, "key-5", time.Hour)
		require.NoError(t, err)
		assert.True(t, claimed)
	})
}

func TestInMemoryIdempotencyStore_Cleanup(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }

	ctx := context.Background()
	_, _, _ = store.Claim(ctx, "short", time.Minute)
	_, _, _ = store.Claim(ctx, "long", time.Hour)
	assert.Equal(t, 2, store.Size())

	store.now = func() time.Time { return base.Add(10 * time.Minute) }
	store.cleanup()
	assert.Equal(t, 1, store.Size())
}

func TestInMemoryIdempotencyStore_Close(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}
