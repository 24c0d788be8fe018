package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"puremilk/internal/data/repository"
	"puremilk/internal/data/repository/repotest"
	"puremilk/internal/dto/request"
	"puremilk/internal/dto/response"
	"puremilk/pkg/metrics"
	"puremilk/pkg/security"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	repo      *repository.Repository
	users     *repotest.UserStore
	customers *repotest.CustomerStore
	clock     *testClock
	hasher    *security.PasswordHasher
	tokens    *security.TokenService
	metrics   *metrics.Metrics
	auth      AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	clock := &testClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}

	users := repotest.NewUserStore()
	customers := repotest.NewCustomerStore()
	repo := &repository.Repository{
		User:       users,
		Customer:   customers,
		Revocation: repotest.NewRevocationStore().WithClock(clock.Now),
		Health:     &repotest.HealthStore{},
	}

	hasher, err := security.NewPasswordHasher(bcrypt.MinCost, 8)
	require.NoError(t, err)

	tokens, err := security.NewTokenService("unit-test-secret", 7*24*time.Hour, "puremilk", security.WithClock(clock.Now))
	require.NoError(t, err)

	m := metrics.New(prometheus.NewRegistry())
	auth := NewAuthService(repo, hasher, tokens, NewLockPolicy(5, 30*time.Minute), m, zap.NewNop(), WithClock(clock.Now))

	return &testEnv{
		repo:      repo,
		users:     users,
		customers: customers,
		clock:     clock,
		hasher:    hasher,
		tokens:    tokens,
		metrics:   m,
		auth:      auth,
	}
}

func (e *testEnv) register(t *testing.T, email, role string) *response.AuthResponse {
	t.Helper()

	resp, err := e.auth.Register(context.Background(), &request.RegisterRequest{
		Email:    email,
		Password: "Passw0rd",
		Role:     role,
		Name:     "Test User",
		Phone:    "+14155552671",
	})
	require.NoError(t, err)
	return resp
}

func (e *testEnv) login(email, password string) (*response.AuthResponse, error) {
	return e.auth.Login(context.Background(), &request.LoginRequest{Email: email, Password: password})
}
