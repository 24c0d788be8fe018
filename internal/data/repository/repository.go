package repository

import (
	"context"
	"errors"
	"time"

	"puremilk/pkg/database"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrAdminExists    = errors.New("admin already exists")
)

type Repository struct {
	User       UserRepository
	Customer   CustomerRepository
	Revocation RevocationRepository
	Health     HealthRepository
}

// NewRepository builds every repository. Each persistence call is bounded by timeout.
func NewRepository(db database.PgxIface, rdb *redis.Client, timeout time.Duration, log *zap.Logger) *Repository {
	return &Repository{
		User:       NewUserRepository(db, timeout, log),
		Customer:   NewCustomerRepository(db, timeout, log),
		Revocation: NewRevocationRepository(rdb, timeout, log),
		Health:     NewHealthRepository(db, rdb),
	}
}

// DefaultQueryTimeout bounds each store call when no timeout is configured.
const DefaultQueryTimeout = 5 * time.Second

// withTimeout bounds a single store call so a stalled backend surfaces as an error.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return context.WithTimeout(ctx, timeout)
}
