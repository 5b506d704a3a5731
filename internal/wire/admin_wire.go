package wire

import (
	"goride/internal/adaptor"
	"goride/pkg/middleware"
	"goride/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireAdmin configures driver approval routes behind the admin key
func wireAdmin(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	r.With(middleware.AdminKey(config.Admin, log)).Route("/api/admin/drivers", func(r chi.Router) {
		r.Get("/", userHandler.ListPendingDrivers)
		r.Patch("/{id}/status", userHandler.UpdateDriverStatus)
	})
}
