package wire

import (
	"goride/internal/adaptor"
	"goride/pkg/middleware"
	"goride/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	handler *adaptor.Handler,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Route("/api/auth", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Post("/register", handler.Auth.Register)
		r.Post("/login", handler.Auth.Login)
		r.Post("/forgot-password", handler.Auth.ForgotPassword)
		r.Post("/reset-password", handler.Auth.ResetPassword)

		// Google OAuth
		r.Get("/google", handler.Google.Redirect)
		r.Get("/google/callback", handler.Google.Callback)

		// ==================== PROTECTED ROUTES ====================
		r.With(middleware.Auth(config.JWT, log)).Get("/me", handler.Auth.Me)
	})
}
