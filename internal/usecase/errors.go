package usecase

import (
	"context"
	"errors"
	"fmt"

	"puremilk/pkg/security"
	"puremilk/pkg/utils"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrEmailTaken         = errors.New("email already registered")
	ErrAdminExists        = errors.New("admin already exists")
	ErrCustomerLimit      = errors.New("customer limit reached")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account locked")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrTokenInvalid       = security.ErrTokenInvalid
	ErrTokenExpired       = security.ErrTokenExpired
	ErrTokenRevoked       = errors.New("token revoked")
	ErrAdminRequired      = errors.New("admin access required")
	ErrCustomerRequired   = errors.New("customer access only")
	ErrNotFound           = errors.New("not found")
	ErrUnavailable        = errors.New("service unavailable")
)

// ValidationError carries field-level messages. It matches ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	return fmt.Sprintf("%s: %s", ErrValidation, utils.FormatValidationErrors(e.Fields))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(fields map[string]string) error {
	return &ValidationError{Fields: fields}
}

// validate runs struct validation and returns a *ValidationError on failure.
func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return newValidationError(errs)
	}
	return nil
}

// storeError marks persistence timeouts as ErrUnavailable and wraps the rest.
func storeError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
