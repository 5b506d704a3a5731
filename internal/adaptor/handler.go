package adaptor

import (
	"goride/internal/usecase"
	"goride/pkg/oauth"
	"goride/pkg/storage"
	"goride/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth   *AuthHandler
	Google *GoogleHandler
	User   *UserHandler
}

func NewHandler(service *usecase.Service, store storage.Storage, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Auth:   NewAuthHandler(service.Auth, store, log),
		Google: NewGoogleHandler(service.Auth, oauth.NewGoogleConfig(config.Google), config.App.FrontendURL, log),
		User:   NewUserHandler(service.User, log),
	}
}
