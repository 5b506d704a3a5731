package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"goride/internal/data/entity"
	"goride/internal/data/repository"
	"goride/internal/dto/request"
	"goride/internal/dto/response"
	"goride/pkg/mailer"
	"goride/pkg/oauth"
	"goride/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	Me(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req *request.ResetPasswordRequest) error
	LoginWithGoogle(ctx context.Context, profile *oauth.Profile) (*response.AuthResponse, error)
}

type authService struct {
	repo   *repository.Repository
	mailer mailer.Mailer
	config *utils.Config
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	mailer mailer.Mailer,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		mailer: mailer,
		config: config,
		log:    log,
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	// 2. Hash password
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to process password")
	}

	// 3. Build user entity
	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: &hashedPassword,
		Role:         entity.UserRole(req.Role),
		ProfilePhoto: req.ProfilePhoto,
		DriverStatus: entity.DriverPending,
	}

	if user.Role == entity.RoleDriver {
		user.NumberPlate = req.NumberPlate
		user.License = req.License
		user.RC = req.RC
		user.Aadhaar = req.Aadhaar
		user.VehiclePhoto = req.VehiclePhoto
	}

	// 4. Save user. The unique index on email decides duplicates, no
	// check-then-insert race here.
	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		s.log.Error("Failed to create user", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("failed to create account")
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)))

	return response.UserToResponse(user), nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	// 2. Find user by email
	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to find user by email", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("failed to find user")
	}

	// 3. Same failure for unknown account, Google-only account, and wrong
	// password, so responses cannot enumerate accounts.
	if user == nil || !user.HasPassword() {
		s.log.Warn("Login rejected", zap.String("email", req.Email))
		return nil, ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(req.Password, *user.PasswordHash) {
		s.log.Warn("Invalid password", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	// 4. Issue token
	token, err := s.issueToken(user)
	if err != nil {
		s.log.Error("Failed to issue token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("failed to create session")
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))

	return &response.AuthResponse{Token: token, Role: user.Role}, nil
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to load profile", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to load profile")
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return response.UserToResponse(user), nil
}

func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	// 1. Find user
	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to find user for reset", zap.Error(err), zap.String("email", email))
		return fmt.Errorf("failed to find user")
	}
	if user == nil {
		return ErrUserNotFound
	}

	// 2. Generate and store OTP, replacing any pending one. Only the latest
	// code is ever valid per account.
	code := utils.GenerateOTP(s.config.OTP.Length)
	expiresAt := time.Now().Add(time.Duration(s.config.OTP.ExpiryMinutes) * time.Minute)

	if err := s.repo.User.SetResetOTP(ctx, user.ID, code, expiresAt); err != nil {
		s.log.Error("Failed to store reset OTP", zap.Error(err), zap.String("email", email))
		return fmt.Errorf("failed to generate OTP")
	}

	s.log.Info("Reset OTP generated",
		zap.String("email", email),
		zap.Time("expires_at", expiresAt))

	// 3. Deliver out-of-band. A bounced email does not invalidate the stored
	// code, the user can simply re-request.
	go s.sendResetOTP(user.Email, code)

	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req *request.ResetPasswordRequest) error {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Reset validation failed", zap.Any("errors", errs))
		return fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	// 2. Hash replacement password
	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return fmt.Errorf("failed to process password")
	}

	// 3. One conditional update checks email, code and expiry and clears the
	// reset state together with the password swap. Wrong email, wrong code,
	// expired and no-pending-reset are indistinguishable here.
	ok, err := s.repo.User.RedeemResetOTP(ctx, req.Email, req.OTP, hashedPassword)
	if err != nil {
		s.log.Error("Failed to redeem reset OTP", zap.Error(err), zap.String("email", req.Email))
		return fmt.Errorf("failed to reset password")
	}
	if !ok {
		s.log.Warn("Reset OTP rejected", zap.String("email", req.Email))
		return ErrInvalidOrExpiredOTP
	}

	s.log.Info("Password reset", zap.String("email", req.Email))
	return nil
}

// LoginWithGoogle resolves a Google profile to exactly one local account:
// by google ID first, then by email (linking once), else a new RIDER.
func (s *authService) LoginWithGoogle(ctx context.Context, profile *oauth.Profile) (*response.AuthResponse, error) {
	// 1. Already linked account
	user, err := s.repo.User.FindByGoogleID(ctx, profile.ID)
	if err != nil {
		s.log.Error("Failed to find user by google ID", zap.Error(err))
		return nil, fmt.Errorf("failed to find user")
	}

	if user == nil {
		// 2. Without an email we can neither merge nor create a usable account
		if profile.Email == "" {
			s.log.Warn("Google profile has no email", zap.String("google_id", profile.ID))
			return nil, ErrEmailRequired
		}

		user, err = s.repo.User.FindByEmail(ctx, profile.Email)
		if err != nil {
			s.log.Error("Failed to find user by email", zap.Error(err), zap.String("email", profile.Email))
			return nil, fmt.Errorf("failed to find user")
		}

		switch {
		case user == nil:
			user, err = s.createGoogleUser(ctx, profile)
			if err != nil {
				return nil, err
			}

		case user.GoogleID == nil:
			// One-time link, existing role and password stay untouched
			if err := s.repo.User.LinkGoogleID(ctx, user.ID, profile.ID); err != nil {
				s.log.Error("Failed to link google ID", zap.Error(err), zap.String("user_id", user.ID.String()))
				return nil, fmt.Errorf("failed to link account")
			}
			s.log.Info("Google account linked",
				zap.String("user_id", user.ID.String()),
				zap.String("email", user.Email))

		default:
			// Same email is already bound to a different Google identity.
			// Never re-link, treat as an authentication failure.
			s.log.Warn("Email bound to another google ID",
				zap.String("email", profile.Email))
			return nil, ErrInvalidCredentials
		}
	}

	token, err := s.issueToken(user)
	if err != nil {
		s.log.Error("Failed to issue token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("failed to create session")
	}

	return &response.AuthResponse{Token: token, Role: user.Role}, nil
}

// ==================== HELPER METHODS ====================

func (s *authService) createGoogleUser(ctx context.Context, profile *oauth.Profile) (*entity.User, error) {
	now := time.Now()
	googleID := profile.ID
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:         profile.Name,
		Email:        profile.Email,
		GoogleID:     &googleID,
		Role:         entity.RoleRider, // Google signup collects no driver documents
		DriverStatus: entity.DriverPending,
	}
	if profile.Picture != "" {
		picture := profile.Picture
		user.ProfilePhoto = &picture
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		s.log.Error("Failed to create google user", zap.Error(err), zap.String("email", profile.Email))
		return nil, fmt.Errorf("failed to create account")
	}

	s.log.Info("User created via google",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return user, nil
}

func (s *authService) issueToken(user *entity.User) (string, error) {
	ttl := time.Duration(s.config.JWT.ExpiryHours) * time.Hour
	return utils.GenerateToken(user.ID.String(), string(user.Role), []byte(s.config.JWT.Secret), ttl)
}

func (s *authService) sendResetOTP(email, code string) {
	if err := s.mailer.SendOTP(email, code); err != nil {
		s.log.Error("Failed to send reset OTP", zap.Error(err), zap.String("email", email))
	}
}
