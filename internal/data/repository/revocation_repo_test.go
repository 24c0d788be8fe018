package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRevocationTest(t *testing.T) (RevocationRepository, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRevocationRepository(client, time.Second, zap.NewNop()), mr
}

func TestRevocationRepository_RevokeUntilExpiry(t *testing.T) {
	repo, mr := setupRevocationTest(t)
	ctx := context.Background()

	revoked, err := repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, repo.Revoke(ctx, "jti-1", time.Hour))

	revoked, err = repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl := mr.TTL(revocationKey("jti-1"))
	assert.Equal(t, time.Hour, ttl)

	// entry disappears once the token would have expired anyway
	mr.FastForward(time.Hour + time.Second)

	revoked, err = repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevocationRepository_NonPositiveTTLIsNoop(t *testing.T) {
	repo, mr := setupRevocationTest(t)

	require.NoError(t, repo.Revoke(context.Background(), "old", -time.Minute))
	assert.False(t, mr.Exists(revocationKey("old")))

	require.NoError(t, repo.Revoke(context.Background(), "zero", 0))
	assert.False(t, mr.Exists(revocationKey("zero")))
}

func TestRevocationRepository_Unavailable(t *testing.T) {
	repo, mr := setupRevocationTest(t)
	mr.Close()

	_, err := repo.IsRevoked(context.Background(), "jti-1")
	assert.Error(t, err)
}
