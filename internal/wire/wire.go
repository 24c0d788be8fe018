package wire

import (
	"fmt"
	"time"

	"puremilk/internal/adaptor"
	"puremilk/internal/data/repository"
	"puremilk/internal/usecase"
	"puremilk/pkg/metrics"
	"puremilk/pkg/middleware"
	"puremilk/pkg/security"
	"puremilk/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// App menyimpan semua dependencies
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
	Metrics *metrics.Metrics
}

// Wiring builds the security primitives, services and handlers, then the router.
func Wiring(
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
	registry *prometheus.Registry,
	opts ...usecase.AuthOption,
) (*App, error) {
	hasher, err := security.NewPasswordHasher(config.Security.BcryptCost, config.Security.HashConcurrency)
	if err != nil {
		return nil, fmt.Errorf("password hasher: %w", err)
	}

	tokens, err := security.NewTokenService(config.JWT.Secret, config.JWT.TokenExpiry(), config.JWT.Issuer)
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}

	m := metrics.New(registry)
	service := usecase.NewService(repo, hasher, tokens, config, m, logger, opts...)
	handler := adaptor.NewHandler(service, repo.Health, config, logger)

	router := setupRouter(handler, service, m, logger)

	return &App{
		Router:  router,
		Service: service,
		Metrics: m,
	}, nil
}

// setupRouter konfigurasi Chi router
func setupRouter(
	handler *adaptor.Handler,
	service *usecase.Service,
	m *metrics.Metrics,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Metrics(m))
	r.Use(chimw.Timeout(30 * time.Second))

	authenticate := middleware.Authenticate(service.Auth, logger)

	// Apply routes
	r.Route("/api", func(r chi.Router) {
		wireAuth(r, handler.Auth, authenticate, logger)
		wireCustomer(r, handler.Customer, authenticate, logger)

		r.Get("/health", handler.Health.Check)
	})

	r.Handle("/metrics", m.Handler())

	return r
}
