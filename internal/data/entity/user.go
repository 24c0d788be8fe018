package entity

import "time"

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleCustomer
}

// User is a login account. Customers are paired 1:1 with a Customer profile by email.
type User struct {
	Base
	Email               string     `db:"email"`
	PasswordHash        string     `db:"password"`
	Role                UserRole   `db:"role"`
	Name                string     `db:"name"`
	Phone               string     `db:"phone"`
	IsActive            bool       `db:"is_active"`
	FailedLoginAttempts int        `db:"failed_login_attempts"`
	LockedUntil         *time.Time `db:"locked_until"`
	LastLogin           *time.Time `db:"last_login"`
}

// LoginFailure is the counter state after a failed login was recorded.
type LoginFailure struct {
	FailedLoginAttempts int
	LockedUntil         *time.Time
}

// EmailStatus reports which records exist for an email address.
type EmailStatus struct {
	Email            string
	UserID           *string
	UserActive       bool
	UserInactive     bool
	CustomerID       *string
	CustomerActive   bool
	CustomerInactive bool
}
