package wire

import (
	"net/http"

	"puremilk/internal/adaptor"
	"puremilk/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCustomer(
	r chi.Router,
	customerHandler *adaptor.CustomerHandler,
	authenticate func(http.Handler) http.Handler,
	log *zap.Logger,
) {
	// admin management
	r.Route("/customers", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(middleware.Admin(log))

		r.Get("/", customerHandler.List)
		r.Post("/", customerHandler.Create)
		r.Get("/{id}", customerHandler.Get)
		r.Put("/{id}", customerHandler.Update)
		r.Delete("/{id}", customerHandler.Delete)
	})

	// customer self-service
	r.With(authenticate, middleware.Customer(log)).Get("/customer/profile", customerHandler.Profile)
}
