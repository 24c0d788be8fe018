package wire

import (
	"net/http"

	"puremilk/internal/adaptor"
	"puremilk/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	authenticate func(http.Handler) http.Handler,
	log *zap.Logger,
) {
	r.Route("/auth", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Get("/check-admin", authHandler.CheckAdmin)

		// ==================== PROTECTED ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Get("/me", authHandler.Me)
			r.Post("/logout", authHandler.Logout)

			r.With(middleware.Admin(log)).Get("/debug-email/{email}", authHandler.DebugEmail)
		})
	})
}
