package usecase

import (
	"context"
	"fmt"

	"goride/internal/data/entity"
	"goride/internal/data/repository"
	"goride/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService covers the operational side of accounts: listing drivers that
// wait for approval and flipping the approval flag. There is no verification
// logic behind the flag.
type UserService interface {
	ListPendingDrivers(ctx context.Context, limit, offset int) ([]*response.UserResponse, error)
	UpdateDriverStatus(ctx context.Context, id uuid.UUID, status entity.DriverStatus) error
}

type userService struct {
	repo repository.UserRepository
	log  *zap.Logger
}

func NewUserService(repo repository.UserRepository, log *zap.Logger) UserService {
	return &userService{
		repo: repo,
		log:  log,
	}
}

func (s *userService) ListPendingDrivers(ctx context.Context, limit, offset int) ([]*response.UserResponse, error) {
	users, err := s.repo.FindPendingDrivers(ctx, limit, offset)
	if err != nil {
		s.log.Error("Failed to list pending drivers", zap.Error(err))
		return nil, fmt.Errorf("failed to list drivers")
	}

	result := make([]*response.UserResponse, 0, len(users))
	for _, user := range users {
		result = append(result, response.UserToResponse(user))
	}

	return result, nil
}

func (s *userService) UpdateDriverStatus(ctx context.Context, id uuid.UUID, status entity.DriverStatus) error {
	ok, err := s.repo.UpdateDriverStatus(ctx, id, status)
	if err != nil {
		s.log.Error("Failed to update driver status",
			zap.Error(err),
			zap.String("user_id", id.String()))
		return fmt.Errorf("failed to update driver status")
	}
	if !ok {
		return ErrUserNotFound
	}

	s.log.Info("Driver status updated",
		zap.String("user_id", id.String()),
		zap.String("status", string(status)))

	return nil
}
