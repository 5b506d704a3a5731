package response

import (
	"time"

	"goride/internal/data/entity"
)

type AuthResponse struct {
	Token string          `json:"token"`
	Role  entity.UserRole `json:"role"`
}

// UserResponse is an Account as exposed over HTTP, password hash and reset
// state omitted.
type UserResponse struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Email        string              `json:"email"`
	Role         entity.UserRole     `json:"role"`
	ProfilePhoto *string             `json:"profilePhoto,omitempty"`
	NumberPlate  *string             `json:"numberPlate,omitempty"`
	License      *string             `json:"license,omitempty"`
	RC           *string             `json:"rc,omitempty"`
	Aadhaar      *string             `json:"aadhaar,omitempty"`
	VehiclePhoto *string             `json:"vehiclePhoto,omitempty"`
	DriverStatus entity.DriverStatus `json:"driverStatus,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
}

func UserToResponse(user *entity.User) *UserResponse {
	resp := &UserResponse{
		ID:           user.ID.String(),
		Name:         user.Name,
		Email:        user.Email,
		Role:         user.Role,
		ProfilePhoto: user.ProfilePhoto,
		CreatedAt:    user.CreatedAt,
	}

	if user.Role == entity.RoleDriver {
		resp.NumberPlate = user.NumberPlate
		resp.License = user.License
		resp.RC = user.RC
		resp.Aadhaar = user.Aadhaar
		resp.VehiclePhoto = user.VehiclePhoto
		resp.DriverStatus = user.DriverStatus
	}

	return resp
}
