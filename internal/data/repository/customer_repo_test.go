package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"puremilk/internal/data/entity"
	"puremilk/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var customerRowColumns = []string{
	"id", "name", "email", "phone", "address", "milk_type", "daily_quantity", "rate_per_liter",
	"morning_delivery", "evening_delivery", "is_active", "created_by", "created_at", "updated_at",
}

func newCustomerRepoMock(t *testing.T) (CustomerRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return NewCustomerRepository(mock, time.Second, zap.NewNop()), mock
}

func sampleCustomer() *entity.Customer {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return &entity.Customer{
		Base:            entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:            "Ravi Kumar",
		Email:           "ravi@x.com",
		Phone:           "+919876543210",
		Address:         "12 Dairy Lane, Green Valley",
		MilkType:        entity.MilkBuffalo,
		DailyQuantity:   2,
		RatePerLiter:    60,
		MorningDelivery: true,
		IsActive:        true,
		CreatedBy:       uuid.New(),
	}
}

func customerRow(c *entity.Customer) []any {
	return []any{
		c.ID, c.Name, c.Email, c.Phone, c.Address, c.MilkType, c.DailyQuantity, c.RatePerLiter,
		c.MorningDelivery, c.EveningDelivery, c.IsActive, c.CreatedBy, c.CreatedAt, c.UpdatedAt,
	}
}

func TestCustomerRepository_CreateDuplicate(t *testing.T) {
	repo, mock := newCustomerRepoMock(t)

	args := make([]any, 14)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO customers")).
		WithArgs(args...).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: database.ConstraintCustomerEmail})

	err := repo.Create(context.Background(), sampleCustomer())
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerRepository_FindAll(t *testing.T) {
	repo, mock := newCustomerRepoMock(t)
	a, b := sampleCustomer(), sampleCustomer()
	b.Email = "other@x.com"

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC")).
		WithArgs("ravi", 10, 20).
		WillReturnRows(mock.NewRows(customerRowColumns).
			AddRow(customerRow(a)...).
			AddRow(customerRow(b)...))

	customers, err := repo.FindAll(context.Background(), "ravi", 10, 20)
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, a.ID, customers[0].ID)
	assert.Equal(t, entity.MilkBuffalo, customers[0].MilkType)
	assert.Equal(t, "other@x.com", customers[1].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerRepository_Count(t *testing.T) {
	repo, mock := newCustomerRepoMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM customers")).
		WithArgs("").
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(int64(42)))

	count, err := repo.Count(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerRepository_DeleteMissing(t *testing.T) {
	repo, mock := newCustomerRepoMock(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM customers WHERE id = $1")).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), id), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
