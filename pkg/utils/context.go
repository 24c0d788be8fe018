package utils

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const (
	PrincipalKey contextKey = "principal"
)

// Principal is the verified identity attached to a request by the auth gate.
type Principal struct {
	UserID    uuid.UUID
	Email     string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// IsAdmin reports whether the principal carries the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == "admin"
}

func SetPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, principal)
}

func GetPrincipal(ctx context.Context) (*Principal, bool) {
	principal, ok := ctx.Value(PrincipalKey).(*Principal)
	if !ok || principal == nil {
		return nil, false
	}
	return principal, true
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	principal, ok := GetPrincipal(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return principal.UserID, true
}

func GetRoleFromContext(ctx context.Context) (string, bool) {
	principal, ok := GetPrincipal(ctx)
	if !ok {
		return "", false
	}
	return principal.Role, true
}
