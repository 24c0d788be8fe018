package repository

import (
	"context"
	"fmt"

	"puremilk/pkg/database"

	"github.com/go-redis/redis/v8"
)

// HealthRepository checks the backing stores.
type HealthRepository interface {
	Check(ctx context.Context) error
}

type healthRepository struct {
	db  database.PgxIface
	rdb *redis.Client
}

func NewHealthRepository(db database.PgxIface, rdb *redis.Client) HealthRepository {
	return &healthRepository{db: db, rdb: rdb}
}

func (r *healthRepository) Check(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := r.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}
