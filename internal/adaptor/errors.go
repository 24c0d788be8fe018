package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"puremilk/internal/usecase"
	"puremilk/pkg/utils"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

// validateRequest writes a 422 and returns false when req fails validation.
func validateRequest(w http.ResponseWriter, req any) bool {
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseUnprocessable(w, "Validation failed", validationErrors)
		return false
	}
	return true
}

// writeError maps service errors to responses. Credential and lock failures
// share one message so callers cannot tell them apart.
func writeError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var validationErr *usecase.ValidationError

	switch {
	case errors.As(err, &validationErr):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseUnprocessable(w, "Validation failed", validationErr.Fields)

	case errors.Is(err, usecase.ErrEmailTaken):
		log.Warn(operation+" failed - email taken", zap.Error(err))
		utils.ResponseBadRequest(w, "Email already registered", nil)

	case errors.Is(err, usecase.ErrAdminExists):
		log.Warn(operation+" failed - admin exists", zap.Error(err))
		utils.ResponseBadRequest(w, "Admin already exists. Only one admin account is allowed.", nil)

	case errors.Is(err, usecase.ErrCustomerLimit):
		log.Warn(operation+" failed - customer limit", zap.Error(err))
		utils.ResponseBadRequest(w, "Maximum customer limit reached", nil)

	case errors.Is(err, usecase.ErrInvalidCredentials),
		errors.Is(err, usecase.ErrAccountLocked):
		log.Warn(operation+" failed - invalid credentials", zap.Error(err))
		utils.ResponseUnauthorized(w, "Invalid credentials")

	case errors.Is(err, usecase.ErrAccountDisabled):
		log.Warn(operation+" failed - account disabled", zap.Error(err))
		utils.ResponseUnauthorized(w, "Account is disabled")

	case errors.Is(err, usecase.ErrUnauthenticated),
		errors.Is(err, usecase.ErrTokenInvalid),
		errors.Is(err, usecase.ErrTokenExpired),
		errors.Is(err, usecase.ErrTokenRevoked):
		log.Warn(operation+" failed - unauthenticated", zap.Error(err))
		utils.ResponseUnauthorized(w, "Invalid or expired token")

	case errors.Is(err, usecase.ErrAdminRequired):
		utils.ResponseForbidden(w, "Admin access required")

	case errors.Is(err, usecase.ErrCustomerRequired):
		utils.ResponseForbidden(w, "Customer access only")

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, "Resource not found")

	case errors.Is(err, usecase.ErrUnavailable):
		log.Error(operation+" failed - backend unavailable", zap.Error(err))
		utils.ResponseUnavailable(w, "Service temporarily unavailable")

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
