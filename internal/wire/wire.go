// internal/wire/wire.go
package wire

import (
	"net/http"

	"goride/internal/adaptor"
	"goride/internal/data/repository"
	"goride/internal/usecase"
	"goride/pkg/mailer"
	"goride/pkg/middleware"
	"goride/pkg/storage"
	"goride/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// App holds the wired dependencies
type App struct {
	Router *chi.Mux
}

// Wiring initializes all dependencies
func Wiring(repo *repository.Repository, store storage.Storage, config *utils.Config, logger *zap.Logger) *App {
	smtp := mailer.NewSMTPMailer(config.Email, logger)
	service := usecase.NewService(repo, smtp, config, logger)
	handler := adaptor.NewHandler(service, store, config, logger)

	router := setupRouter(handler, config, logger)

	return &App{
		Router: router,
	}
}

// corsOptions allows the frontend origin to call the API with credentials.
// X-Admin-Key rides along for the driver approval endpoints.
func corsOptions(frontendURL string) cors.Options {
	return cors.Options{
		AllowedOrigins:   []string{frontendURL},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Admin-Key"},
		AllowCredentials: true,
		MaxAge:           300,
	}
}

// setupRouter configures the chi router
func setupRouter(
	handler *adaptor.Handler,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(cors.Handler(corsOptions(config.App.FrontendURL)))

	// Apply routes
	wireAuth(r, handler, config, logger)
	wireAdmin(r, handler.User, config, logger)

	// Locally stored documents are served statically
	if config.Storage.Driver == "local" || config.Storage.Driver == "" {
		fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(config.Storage.UploadDir)))
		r.Get("/uploads/*", fileServer.ServeHTTP)
	}

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
