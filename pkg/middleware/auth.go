package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"puremilk/internal/usecase"
	"puremilk/pkg/utils"

	"go.uber.org/zap"
)

// Authenticator resolves a bearer token into a principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*utils.Principal, error)
}

// Authenticate requires a valid bearer token and stores the principal in the request context.
// Every failure gets the same 401 body; the reason is only logged.
func Authenticate(auth Authenticator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			principal, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				if errors.Is(err, usecase.ErrUnavailable) {
					logger.Error("Authentication backend unavailable", zap.Error(err))
					utils.ResponseUnavailable(w, "Service temporarily unavailable")
					return
				}
				logger.Warn("Authentication failed",
					zap.Error(err),
					zap.String("path", r.URL.Path),
					zap.String("ip", r.RemoteAddr),
				)
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx := utils.SetPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Admin - middleware cek role admin, must run after Authenticate
func Admin(logger *zap.Logger) func(http.Handler) http.Handler {
	return requireRole("admin", "Admin access required", logger)
}

// Customer limits a route to customer accounts, must run after Authenticate
func Customer(logger *zap.Logger) func(http.Handler) http.Handler {
	return requireRole("customer", "Customer access only", logger)
}

func requireRole(role, message string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := utils.GetPrincipal(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if principal.Role != role {
				logger.Warn("Role check: access denied",
					zap.String("user_id", principal.UserID.String()),
					zap.String("role", principal.Role),
					zap.String("required", role),
					zap.String("path", r.URL.Path),
				)
				utils.ResponseForbidden(w, message)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token from "Bearer <token>". The scheme is case-insensitive.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
