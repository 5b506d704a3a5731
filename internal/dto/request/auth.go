package request

type RegisterRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=6"`
	Role        string  `json:"role" validate:"required,oneof=RIDER DRIVER"`
	NumberPlate *string `json:"numberPlate,omitempty" validate:"omitempty,min=4,max=20"`

	// Document references filled in by the handler after upload, never
	// taken from the request body.
	ProfilePhoto *string `json:"-"`
	License      *string `json:"-"`
	RC           *string `json:"-"`
	Aadhaar      *string `json:"-"`
	VehiclePhoto *string `json:"-"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OTP         string `json:"otp" validate:"required,len=6,numeric"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}
