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

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	ExistsByRole(ctx context.Context, role entity.UserRole) (bool, error)

	// Login bookkeeping. Each call is a single statement.
	RecordFailedLogin(ctx context.Context, id uuid.UUID, threshold int, lockUntil, now time.Time) (*entity.LoginFailure, error)
	RecordSuccessfulLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error

	SetActiveByEmail(ctx context.Context, email string, active bool) error
	DeleteByEmail(ctx context.Context, email string) (bool, error)
}

type userRepository struct {
	db      database.PgxIface
	timeout time.Duration
	log     *zap.Logger
}

func NewUserRepository(db database.PgxIface, timeout time.Duration, log *zap.Logger) UserRepository {
	return &userRepository{
		db:      db,
		timeout: timeout,
		log:     log.With(zap.String("repository", "user")),
	}
}

const userColumns = `id, email, password, role, name, phone, is_active,
		       failed_login_attempts, locked_until, last_login, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Name,
		&user.Phone,
		&user.IsActive,
		&user.FailedLoginAttempts,
		&user.LockedUntil,
		&user.LastLogin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user. Unique violations map to ErrDuplicateEmail or ErrAdminExists.
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	ctx, cancel := withTimeout(ctx, ur.timeout)
	defer cancel()

	query := `
		INSERT INTO users (id, email, password, role, name, phone, is_active,
		                   failed_login_attempts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := ur.db.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Name,
		user.Phone,
		user.IsActive,
		user.FailedLoginAttempts,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if constraint, ok := database.IsUniqueViolation(err); ok {
			switch constraint {
			case database.ConstraintSingleAdmin:
				return ErrAdminExists
			default:
				return ErrDuplicateEmail
			}
		}
		ur.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
		)
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}

	return nil
}

func (ur *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	ctx, cancel := withTimeout(ctx, ur.timeout)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(ur.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by ID",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return nil, fmt.Errorf("find user by ID %s: %w", id.String(), err)
	}

	return user, nil
}

func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	ctx, cancel := withTimeout(ctx, ur.timeout)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(ur.db.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by email",
			zap.Error(err),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("find user by email %s: %w", email, err)
	}

	return user, nil
}

func (ur *userRepository) ExistsByRole(ctx context.Context, role entity.UserRole) (bool, error) {
	ctx, cancel := withTimeout(ctx, ur.timeout)
	defer cancel()

	query := `SELECT EXISTS (SELECT 1 FROM users WHERE role = $1)`

	var exists bool
	if err := ur.db.QueryRow(ctx, query, role).Scan(&exists); err != nil {
		ur.log.Error("Failed to check role existence", zap.Error(err), zap.String("role", string(role)))
		return false, fmt.Errorf("check role %s exists: %w", role, err)
	}

	return exists, nil
}

// RecordFailedLogin increments the failure counter and sets the lock once the
// threshold is reached, in one statement. Rows that are currently locked are
// left untouched and (nil, nil) is returned.
func (ur *userRepository) RecordFailedLogin(ctx context.Context, id uuid.UUID, threshold int, lockUntil, now time.Time) (*entity.LoginFailure, error) {
	ctx, cancel := withTimeout(ctx, ur.timeout)
	defer cancel()

	// SET expressions see the pre-update row
	query := `
		UPDATE users
		SET failed_login_attempts = failed_login_attempts + 1,
		    locked_until = CASE
		        WHEN failed_login_attempts + 1 >= $2 THEN $3
		        ELSE locked_until
		    END,
		    updated_at = $4
		WHERE id = $1 AND (locked_until IS NULL OR locked_until <= $4)
		RETURNING failed_login_attempts, locked_until
	`

	var failure entity.LoginFailure
	err := ur.db.QueryRow(ctx, query, id, threshold, lockUntil, now).Scan(
		&failure.FailedLoginAttempts,
		&failure.LockedUntil,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to record failed login",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return nil, fmt.Errorf("record failed login for %s: %w", id.String(), err)
	}

	return &failure, nil
}

func (ur *userRepository) RecordSuccessfulLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	ctx, cancel := withTimeout(ctx, ur.timeout)
	defer cancel()

	query := `
		UPDATE users
		SET failed_login_attempts = 0, locked_until = NULL, last_login = $2, updated_at = $2
		WHERE id = $1
	`

	result, err := ur.db.Exec(ctx, query, id, at)
	if err != nil {
		ur.log.Error("Failed to record successful login", zap.Error(err), zap.String("user_id", id.String()))
		return fmt.Errorf("record successful login for %s: %w", id.String(), err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (ur *userRepository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	ctx, cancel := withTimeout(ctx, ur.timeout)
	defer cancel()

	query := `UPDATE users SET last_login = $2 WHERE id = $1`

	if _, err := ur.db.Exec(ctx, query, id, at); err != nil {
		ur.log.Error("Failed to update last login", zap.Error(err), zap.String("user_id", id.String()))
		return fmt.Errorf("touch last login for %s: %w", id.String(), err)
	}

	return nil
}

func (ur *userRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	ctx, cancel := withTimeout(ctx, ur.timeout)
	defer cancel()

	query := `UPDATE users SET password = $2, updated_at = NOW() WHERE id = $1`

	result, err := ur.db.Exec(ctx, query, id, hash)
	if err != nil {
		ur.log.Error("Failed to update password hash", zap.Error(err), zap.String("user_id", id.String()))
		return fmt.Errorf("update password hash for %s: %w", id.String(), err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (ur *userRepository) SetActiveByEmail(ctx context.Context, email string, active bool) error {
	ctx, cancel := withTimeout(ctx, ur.timeout)
	defer cancel()

	query := `UPDATE users SET is_active = $2, updated_at = NOW() WHERE email = $1`

	result, err := ur.db.Exec(ctx, query, email, active)
	if err != nil {
		ur.log.Error("Failed to set user active flag",
			zap.Error(err),
			zap.String("email", email),
			zap.Bool("active", active),
		)
		return fmt.Errorf("set active=%t for %s: %w", active, email, err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteByEmail hard-deletes the account and reports whether a row was removed.
func (ur *userRepository) DeleteByEmail(ctx context.Context, email string) (bool, error) {
	ctx, cancel := withTimeout(ctx, ur.timeout)
	defer cancel()

	query := `DELETE FROM users WHERE email = $1`

	result, err := ur.db.Exec(ctx, query, email)
	if err != nil {
		ur.log.Error("Failed to delete user", zap.Error(err), zap.String("email", email))
		return false, fmt.Errorf("delete user %s: %w", email, err)
	}

	deleted := result.RowsAffected() > 0
	if deleted {
		ur.log.Info("User deleted", zap.String("email", email))
	}
	return deleted, nil
}
