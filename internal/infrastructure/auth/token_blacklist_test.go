package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklist_Revoke(t *testing.T) {
	blacklist := NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.Revoke(ctx, "jti-1", time.Hour))

	revoked, err := blacklist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = blacklist.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_Expiration(t *testing.T) {
	blacklist := NewInMemoryTokenBlacklist()
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	blacklist.nowFunc = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, blacklist.Revoke(ctx, "jti-short", time.Minute))
	require.NoError(t, blacklist.Revoke(ctx, "jti-expired", 0))

	now = now.Add(2 * time.Minute)
	revoked, err := blacklist.IsRevoked(ctx, "jti-short")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.Empty(t, blacklist.jtis)
}

func TestInMemoryTokenBlacklist_RevokeUser(t *testing.T) {
	blacklist := NewInMemoryTokenBlacklist()
	ctx := context.Background()
	userID := uuid.New()
	issuedBefore := time.Now().Add(-time.Hour)

	revoked, err := blacklist.IsUserRevoked(ctx, userID, issuedBefore)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, blacklist.RevokeUser(ctx, userID, 24*time.Hour))

	revoked, err = blacklist.IsUserRevoked(ctx, userID, issuedBefore)
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = blacklist.IsUserRevoked(ctx, userID, time.Now().Add(time.Second))
	require.NoError(t, err)
	assert.False(t, revoked, "tokens issued after the revocation stay valid")

	revoked, err = blacklist.IsUserRevoked(ctx, uuid.New(), issuedBefore)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisTokenBlacklist_Keys(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	b := NewRedisTokenBlacklist(client)
	userID := uuid.MustParse("7f1c1f1e-8d7a-4f4b-9c39-5d2d8a0e0b11")

	assert.Equal(t, "token:blacklist:jti:abc", b.jtiKey("abc"))
	assert.Equal(t, "token:blacklist:user:7f1c1f1e-8d7a-4f4b-9c39-5d2d8a0e0b11", b.userKey(userID))
	assert.NoError(t, b.Revoke(context.Background(), "abc", 0), "zero ttl is a no-op")
}
