package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RevocationRepository tracks token ids that must no longer authenticate.
type RevocationRepository interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type revocationRepository struct {
	rdb     *redis.Client
	timeout time.Duration
	log     *zap.Logger
}

func NewRevocationRepository(rdb *redis.Client, timeout time.Duration, log *zap.Logger) RevocationRepository {
	return &revocationRepository{
		rdb:     rdb,
		timeout: timeout,
		log:     log.With(zap.String("repository", "revocation")),
	}
}

func revocationKey(tokenID string) string {
	return "revoked_token:" + tokenID
}

// Revoke stores tokenID for ttl, the token's remaining lifetime. A non-positive ttl is a no-op.
func (r *revocationRepository) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.rdb.Set(ctx, revocationKey(tokenID), "1", ttl).Err(); err != nil {
		r.log.Error("Failed to revoke token", zap.Error(err), zap.String("token_id", tokenID))
		return fmt.Errorf("revoke token %s: %w", tokenID, err)
	}

	return nil
}

func (r *revocationRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	n, err := r.rdb.Exists(ctx, revocationKey(tokenID)).Result()
	if err != nil {
		r.log.Error("Failed to check token revocation", zap.Error(err), zap.String("token_id", tokenID))
		return false, fmt.Errorf("check revocation %s: %w", tokenID, err)
	}

	return n > 0, nil
}
