package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"puremilk/internal/usecase"
	"puremilk/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubAuthenticator struct {
	principal *utils.Principal
	err       error
	gotToken  string
}

func (s *stubAuthenticator) Authenticate(ctx context.Context, token string) (*utils.Principal, error) {
	s.gotToken = token
	return s.principal, s.err
}

func okHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := utils.GetPrincipal(r.Context())
		assert.True(t, ok)
		w.Header().Set("X-Role", principal.Role)
		w.WriteHeader(http.StatusOK)
	})
}

func serve(h http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate(t *testing.T) {
	admin := &utils.Principal{UserID: uuid.New(), Email: "a@x.com", Role: "admin"}

	tests := []struct {
		name       string
		header     string
		err        error
		wantStatus int
		wantToken  string
	}{
		{name: "valid token", header: "Bearer abc.def.ghi", wantStatus: http.StatusOK, wantToken: "abc.def.ghi"},
		{name: "scheme is case-insensitive", header: "bearer abc", wantStatus: http.StatusOK, wantToken: "abc"},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", wantStatus: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer   ", wantStatus: http.StatusUnauthorized},
		{name: "rejected token", header: "Bearer abc", err: usecase.ErrTokenExpired, wantStatus: http.StatusUnauthorized, wantToken: "abc"},
		{name: "revoked token", header: "Bearer abc", err: usecase.ErrTokenRevoked, wantStatus: http.StatusUnauthorized, wantToken: "abc"},
		{
			name:       "store unavailable",
			header:     "Bearer abc",
			err:        fmt.Errorf("find user: %w", usecase.ErrUnavailable),
			wantStatus: http.StatusServiceUnavailable,
			wantToken:  "abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubAuthenticator{principal: admin, err: tt.err}
			if tt.err != nil {
				stub.principal = nil
			}

			rec := serve(Authenticate(stub, zap.NewNop())(okHandler(t)), tt.header)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantToken, stub.gotToken)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
			}
		})
	}
}

func TestRoleGates(t *testing.T) {
	admin := &utils.Principal{UserID: uuid.New(), Role: "admin"}
	customer := &utils.Principal{UserID: uuid.New(), Role: "customer"}

	tests := []struct {
		name       string
		gate       func(*zap.Logger) func(http.Handler) http.Handler
		principal  *utils.Principal
		wantStatus int
		wantBody   string
	}{
		{name: "admin passes admin gate", gate: Admin, principal: admin, wantStatus: http.StatusOK},
		{name: "customer blocked by admin gate", gate: Admin, principal: customer, wantStatus: http.StatusForbidden, wantBody: "Admin access required"},
		{name: "customer passes customer gate", gate: Customer, principal: customer, wantStatus: http.StatusOK},
		{name: "admin blocked by customer gate", gate: Customer, principal: admin, wantStatus: http.StatusForbidden, wantBody: "Customer access only"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubAuthenticator{principal: tt.principal}
			h := Authenticate(stub, zap.NewNop())(tt.gate(zap.NewNop())(okHandler(t)))

			rec := serve(h, "Bearer token")

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRoleGateWithoutPrincipal(t *testing.T) {
	h := Admin(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := serve(h, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
