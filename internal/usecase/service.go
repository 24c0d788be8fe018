package usecase

import (
	"puremilk/internal/data/repository"
	"puremilk/pkg/metrics"
	"puremilk/pkg/security"
	"puremilk/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth     AuthService
	Customer CustomerService
}

func NewService(
	repo *repository.Repository,
	hasher *security.PasswordHasher,
	tokens *security.TokenService,
	config *utils.Config,
	m *metrics.Metrics,
	log *zap.Logger,
	opts ...AuthOption,
) *Service {
	policy := NewLockPolicy(config.Security.LockoutThreshold, config.Security.LockoutDuration)
	auth := NewAuthService(repo, hasher, tokens, policy, m, log, opts...)

	return &Service{
		Auth:     auth,
		Customer: NewCustomerService(repo.Customer, auth, config.Customer.MaxCustomers, log),
	}
}
