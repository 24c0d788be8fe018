package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"puremilk/internal/data/entity"
	"puremilk/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	FindByEmail(ctx context.Context, email string) (*entity.Customer, error)
	FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.Customer, error)
	Count(ctx context.Context, search string) (int64, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type customerRepository struct {
	db      database.PgxIface
	timeout time.Duration
	log     *zap.Logger
}

func NewCustomerRepository(db database.PgxIface, timeout time.Duration, log *zap.Logger) CustomerRepository {
	return &customerRepository{
		db:      db,
		timeout: timeout,
		log:     log.With(zap.String("repository", "customer")),
	}
}

const customerColumns = `id, name, email, phone, address, milk_type, daily_quantity, rate_per_liter,
		       morning_delivery, evening_delivery, is_active, created_by, created_at, updated_at`

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Address,
		&c.MilkType,
		&c.DailyQuantity,
		&c.RatePerLiter,
		&c.MorningDelivery,
		&c.EveningDelivery,
		&c.IsActive,
		&c.CreatedBy,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// searchFilter matches name, email or phone case-insensitively; empty search matches everything.
const searchFilter = `($1 = '' OR name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%' OR phone ILIKE '%' || $1 || '%')`

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		INSERT INTO customers (id, name, email, phone, address, milk_type, daily_quantity,
		                       rate_per_liter, morning_delivery, evening_delivery, is_active,
		                       created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.Exec(ctx, query,
		customer.ID,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.Address,
		customer.MilkType,
		customer.DailyQuantity,
		customer.RatePerLiter,
		customer.MorningDelivery,
		customer.EveningDelivery,
		customer.IsActive,
		customer.CreatedBy,
		customer.CreatedAt,
		customer.UpdatedAt,
	)
	if err != nil {
		if _, ok := database.IsUniqueViolation(err); ok {
			return ErrDuplicateEmail
		}
		r.log.Error("Failed to create customer",
			zap.Error(err),
			zap.String("email", customer.Email),
		)
		return fmt.Errorf("create customer %s: %w", customer.Email, err)
	}

	return nil
}

func (r *customerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	customer, err := scanCustomer(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find customer by ID", zap.Error(err), zap.String("customer_id", id.String()))
		return nil, fmt.Errorf("find customer by ID %s: %w", id.String(), err)
	}

	return customer, nil
}

func (r *customerRepository) FindByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + customerColumns + ` FROM customers WHERE email = $1`

	customer, err := scanCustomer(r.db.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find customer by email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("find customer by email %s: %w", email, err)
	}

	return customer, nil
}

// FindAll retrieves a page of customers, newest first
func (r *customerRepository) FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.Customer, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE ` + searchFilter + `
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, search, limit, offset)
	if err != nil {
		r.log.Error("Failed to list customers",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find customers limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var customers []*entity.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			r.log.Error("Failed to scan customer row", zap.Error(err))
			return nil, fmt.Errorf("scan customer row: %w", err)
		}
		customers = append(customers, customer)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate customer rows: %w", err)
	}

	return customers, nil
}

func (r *customerRepository) Count(ctx context.Context, search string) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT COUNT(*) FROM customers WHERE ` + searchFilter

	var count int64
	if err := r.db.QueryRow(ctx, query, search).Scan(&count); err != nil {
		r.log.Error("Failed to count customers", zap.Error(err))
		return 0, fmt.Errorf("count customers: %w", err)
	}

	return count, nil
}

func (r *customerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		UPDATE customers
		SET name = $2, phone = $3, address = $4, milk_type = $5, daily_quantity = $6,
		    rate_per_liter = $7, morning_delivery = $8, evening_delivery = $9,
		    is_active = $10, updated_at = $11
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		customer.ID,
		customer.Name,
		customer.Phone,
		customer.Address,
		customer.MilkType,
		customer.DailyQuantity,
		customer.RatePerLiter,
		customer.MorningDelivery,
		customer.EveningDelivery,
		customer.IsActive,
		customer.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update customer", zap.Error(err), zap.String("customer_id", customer.ID.String()))
		return fmt.Errorf("update customer %s: %w", customer.ID.String(), err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `DELETE FROM customers WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete customer", zap.Error(err), zap.String("customer_id", id.String()))
		return fmt.Errorf("delete customer %s: %w", id.String(), err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	r.log.Info("Customer deleted", zap.String("customer_id", id.String()))
	return nil
}
