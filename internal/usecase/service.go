package usecase

import (
	"goride/internal/data/repository"
	"goride/pkg/mailer"
	"goride/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth AuthService
	User UserService
}

func NewService(repo *repository.Repository, mailer mailer.Mailer, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth: NewAuthService(repo, mailer, config, log),
		User: NewUserService(repo.User, log),
	}
}
