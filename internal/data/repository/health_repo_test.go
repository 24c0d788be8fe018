package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthRepository_Check(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	repo := NewHealthRepository(mock, client)

	t.Run("healthy", func(t *testing.T) {
		mock.ExpectPing()
		assert.NoError(t, repo.Check(context.Background()))
	})

	t.Run("database down", func(t *testing.T) {
		mock.ExpectPing().WillReturnError(errors.New("no route to host"))

		err := repo.Check(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database")
	})

	t.Run("redis down", func(t *testing.T) {
		mock.ExpectPing()
		mr.Close()

		err := repo.Check(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redis")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
