package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"goride/internal/data/entity"
	"goride/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// ErrDuplicateEmail is returned by Create when the unique index on email
// rejects the insert. The index is the serialization point for concurrent
// registrations, not an application-level pre-check.
var ErrDuplicateEmail = errors.New("email already registered")

const userColumns = `id, name, email, google_id, password, role, profile_photo,
	       driver_status, number_plate, license, rc, aadhaar, vehicle_photo,
	       reset_otp, reset_expires, created_at, updated_at`

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*entity.User, error)
	FindPendingDrivers(ctx context.Context, limit, offset int) ([]*entity.User, error)
	LinkGoogleID(ctx context.Context, id uuid.UUID, googleID string) error
	SetResetOTP(ctx context.Context, id uuid.UUID, code string, expires time.Time) error
	RedeemResetOTP(ctx context.Context, email, code, newHash string) (bool, error)
	UpdateDriverStatus(ctx context.Context, id uuid.UUID, status entity.DriverStatus) (bool, error)
}

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

// Create inserts a new user record into the database
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, name, email, google_id, password, role, profile_photo,
		                   driver_status, number_plate, license, rc, aadhaar, vehicle_photo,
		                   created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := ur.db.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.GoogleID,
		user.PasswordHash,
		user.Role,
		user.ProfilePhoto,
		user.DriverStatus,
		user.NumberPlate,
		user.License,
		user.RC,
		user.Aadhaar,
		user.VehiclePhoto,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		ur.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
		)
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}

	return nil
}

func (ur *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	user, err := ur.scanOne(ur.db.QueryRow(ctx, query, id))
	if err != nil {
		ur.log.Error("Failed to find user by ID",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return nil, fmt.Errorf("find user by ID %s: %w", id.String(), err)
	}

	return user, nil
}

func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	// Case-insensitive, matches the unique index on LOWER(email)
	query := fmt.Sprintf(`SELECT %s FROM users WHERE LOWER(email) = LOWER($1)`, userColumns)

	user, err := ur.scanOne(ur.db.QueryRow(ctx, query, email))
	if err != nil {
		ur.log.Error("Failed to find user by email",
			zap.Error(err),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("find user by email %s: %w", email, err)
	}

	return user, nil
}

func (ur *userRepository) FindByGoogleID(ctx context.Context, googleID string) (*entity.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE google_id = $1`, userColumns)

	user, err := ur.scanOne(ur.db.QueryRow(ctx, query, googleID))
	if err != nil {
		ur.log.Error("Failed to find user by google ID",
			zap.Error(err),
			zap.String("google_id", googleID),
		)
		return nil, fmt.Errorf("find user by google ID %s: %w", googleID, err)
	}

	return user, nil
}

// FindPendingDrivers retrieves paginated drivers awaiting approval
func (ur *userRepository) FindPendingDrivers(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE role = $1 AND driver_status = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, userColumns)

	rows, err := ur.db.Query(ctx, query, entity.RoleDriver, entity.DriverPending, limit, offset)
	if err != nil {
		ur.log.Error("Failed to list pending drivers",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find pending drivers limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		var user entity.User
		if err := scanUser(rows, &user); err != nil {
			ur.log.Error("Failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		ur.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate users rows: %w", err)
	}

	return users, nil
}

// LinkGoogleID attaches a Google identity to an existing account. The guard on
// google_id IS NULL makes the link one-way: an already linked account is never
// overwritten.
func (ur *userRepository) LinkGoogleID(ctx context.Context, id uuid.UUID, googleID string) error {
	query := `
		UPDATE users
		SET google_id = $2, updated_at = NOW()
		WHERE id = $1 AND google_id IS NULL
	`

	result, err := ur.db.Exec(ctx, query, id, googleID)
	if err != nil {
		ur.log.Error("Failed to link google ID",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return fmt.Errorf("link google ID for user %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found or already linked", id.String())
	}

	return nil
}

// SetResetOTP stores a fresh reset code, replacing any pending one.
func (ur *userRepository) SetResetOTP(ctx context.Context, id uuid.UUID, code string, expires time.Time) error {
	query := `
		UPDATE users
		SET reset_otp = $2, reset_expires = $3, updated_at = NOW()
		WHERE id = $1
	`

	result, err := ur.db.Exec(ctx, query, id, code, expires)
	if err != nil {
		ur.log.Error("Failed to store reset OTP",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return fmt.Errorf("set reset OTP for user %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", id.String())
	}

	return nil
}

// RedeemResetOTP replaces the password and clears the reset state in one
// conditional update. The WHERE clause checks email, code and expiry in the
// database, so two concurrent redemptions of the same code can never both
// succeed. Returns false when nothing matched.
func (ur *userRepository) RedeemResetOTP(ctx context.Context, email, code, newHash string) (bool, error) {
	query := `
		UPDATE users
		SET password = $3, reset_otp = NULL, reset_expires = NULL, updated_at = NOW()
		WHERE LOWER(email) = LOWER($1)
		  AND reset_otp = $2
		  AND reset_expires > NOW()
	`

	result, err := ur.db.Exec(ctx, query, email, code, newHash)
	if err != nil {
		ur.log.Error("Failed to redeem reset OTP",
			zap.Error(err),
			zap.String("email", email),
		)
		return false, fmt.Errorf("redeem reset OTP for %s: %w", email, err)
	}

	return result.RowsAffected() == 1, nil
}

// UpdateDriverStatus flips the approval flag on a driver account.
func (ur *userRepository) UpdateDriverStatus(ctx context.Context, id uuid.UUID, status entity.DriverStatus) (bool, error) {
	query := `
		UPDATE users
		SET driver_status = $2, updated_at = NOW()
		WHERE id = $1 AND role = $3
	`

	result, err := ur.db.Exec(ctx, query, id, status, entity.RoleDriver)
	if err != nil {
		ur.log.Error("Failed to update driver status",
			zap.Error(err),
			zap.String("user_id", id.String()),
			zap.String("status", string(status)),
		)
		return false, fmt.Errorf("update driver status for %s: %w", id.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

func (ur *userRepository) scanOne(row pgx.Row) (*entity.User, error) {
	var user entity.User
	err := scanUser(row, &user)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func scanUser(row pgx.Row, user *entity.User) error {
	return row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.GoogleID,
		&user.PasswordHash,
		&user.Role,
		&user.ProfilePhoto,
		&user.DriverStatus,
		&user.NumberPlate,
		&user.License,
		&user.RC,
		&user.Aadhaar,
		&user.VehiclePhoto,
		&user.ResetOTP,
		&user.ResetExpires,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
}
