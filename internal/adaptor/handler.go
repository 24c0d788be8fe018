package adaptor

import (
	"puremilk/internal/data/repository"
	"puremilk/internal/usecase"
	"puremilk/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth     *AuthHandler
	Customer *CustomerHandler
	Health   *HealthHandler
}

func NewHandler(service *usecase.Service, health repository.HealthRepository, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(service.Auth, log),
		Customer: NewCustomerHandler(service.Customer, log),
		Health:   NewHealthHandler(health, config.App, log),
	}
}
