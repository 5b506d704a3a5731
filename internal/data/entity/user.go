package entity

import "time"

type UserRole string

const (
	RoleRider  UserRole = "RIDER"
	RoleDriver UserRole = "DRIVER"
)

type DriverStatus string

const (
	DriverPending  DriverStatus = "PENDING"
	DriverApproved DriverStatus = "APPROVED"
	DriverRejected DriverStatus = "REJECTED"
)

type User struct {
	Base
	Name         string       `db:"name"`
	Email        string       `db:"email"`
	GoogleID     *string      `db:"google_id"`
	PasswordHash *string      `db:"password"`
	Role         UserRole     `db:"role"`
	ProfilePhoto *string      `db:"profile_photo"`
	DriverStatus DriverStatus `db:"driver_status"`

	// Driver documents, opaque paths written by the storage layer
	NumberPlate  *string `db:"number_plate"`
	License      *string `db:"license"`
	RC           *string `db:"rc"`
	Aadhaar      *string `db:"aadhaar"`
	VehiclePhoto *string `db:"vehicle_photo"`

	// Pending password reset, both set or both nil
	ResetOTP     *string    `db:"reset_otp"`
	ResetExpires *time.Time `db:"reset_expires"`
}

// HasPassword reports whether the account can log in with credentials.
// Accounts created through Google sign-in have no hash until a reset sets one.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}
