package adaptor

import (
	"context"
	"net/http"
	"time"

	"puremilk/internal/data/repository"
	"puremilk/internal/dto/response"
	"puremilk/pkg/utils"

	"go.uber.org/zap"
)

// Version is reported by the health endpoint.
var Version = "1.0.0"

type HealthHandler struct {
	repo   repository.HealthRepository
	config utils.AppConfig
	log    *zap.Logger
}

func NewHealthHandler(repo repository.HealthRepository, config utils.AppConfig, log *zap.Logger) *HealthHandler {
	return &HealthHandler{
		repo:   repo,
		config: config,
		log:    log,
	}
}

// Check handles GET /api/health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.repo.Check(ctx); err != nil {
		h.log.Error("Health check failed", zap.Error(err))
		utils.ResponseUnavailable(w, "Service unhealthy")
		return
	}

	utils.ResponseSuccess(w, "Service healthy", response.HealthResponse{
		Status:      "healthy",
		Environment: h.config.Environment,
		Timestamp:   time.Now().UTC(),
		Version:     Version,
	})
}
