package usecase

import "errors"

// Domain failures recovered at the handler boundary. Login and OTP failures
// are deliberately single errors so responses cannot be used to probe which
// part of a credential was wrong.
var (
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidOrExpiredOTP = errors.New("invalid or expired OTP")
	ErrEmailRequired       = errors.New("provider profile has no email")
	ErrValidation          = errors.New("validation failed")
)
