package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"goride/internal/data/entity"
	"goride/internal/data/repository"
	"goride/internal/dto/request"
	"goride/pkg/oauth"
	"goride/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- fakes ---

// fakeUserRepo mimics the Postgres repository including its atomic
// guarantees: unique email, one-way google linking, conditional OTP redeem.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Wrapped like a real driver error, callers must unwrap with errors.Is.
	for _, u := range f.users {
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("insert user: %w", repository.ErrDuplicateEmail)
		}
		if u.GoogleID != nil && user.GoogleID != nil && *u.GoogleID == *user.GoogleID {
			return fmt.Errorf("insert user: %w", repository.ErrDuplicateEmail)
		}
	}

	f.users[user.ID] = cloneUser(user)
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if u, ok := f.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByGoogleID(_ context.Context, googleID string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindPendingDrivers(_ context.Context, limit, offset int) ([]*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var drivers []*entity.User
	for _, u := range f.users {
		if u.Role == entity.RoleDriver && u.DriverStatus == entity.DriverPending {
			drivers = append(drivers, cloneUser(u))
		}
	}
	return drivers, nil
}

func (f *fakeUserRepo) LinkGoogleID(_ context.Context, id uuid.UUID, googleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok || u.GoogleID != nil {
		return errors.New("user not found or already linked")
	}
	u.GoogleID = &googleID
	return nil
}

func (f *fakeUserRepo) SetResetOTP(_ context.Context, id uuid.UUID, code string, expires time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return errors.New("user not found")
	}
	u.ResetOTP = &code
	u.ResetExpires = &expires
	return nil
}

func (f *fakeUserRepo) RedeemResetOTP(_ context.Context, email, code, newHash string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if !strings.EqualFold(u.Email, email) {
			continue
		}
		if u.ResetOTP == nil || u.ResetExpires == nil {
			return false, nil
		}
		if *u.ResetOTP != code || !u.ResetExpires.After(time.Now()) {
			return false, nil
		}
		u.PasswordHash = &newHash
		u.ResetOTP = nil
		u.ResetExpires = nil
		return true, nil
	}
	return false, nil
}

func (f *fakeUserRepo) UpdateDriverStatus(_ context.Context, id uuid.UUID, status entity.DriverStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok || u.Role != entity.RoleDriver {
		return false, nil
	}
	u.DriverStatus = status
	return true, nil
}

// setResetExpiry rewrites the stored expiry to exercise boundary conditions.
func (f *fakeUserRepo) setResetExpiry(t *testing.T, email string, expires time.Time) {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			u.ResetExpires = &expires
			return
		}
	}
	t.Fatalf("no user with email %s", email)
}

func (f *fakeUserRepo) storedOTP(t *testing.T, email string) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			require.NotNil(t, u.ResetOTP)
			require.NotNil(t, u.ResetExpires)
			return *u.ResetOTP
		}
	}
	t.Fatalf("no user with email %s", email)
	return ""
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	return &c
}

// fakeMailer records sent codes; SendOTP runs on a goroutine in the service,
// so deliveries are signalled through a channel.
type fakeMailer struct {
	mu   sync.Mutex
	sent []string
	err  error
	ch   chan string
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{ch: make(chan string, 8)}
}

func (m *fakeMailer) SendOTP(email, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, code)
	m.ch <- code
	return nil
}

func (m *fakeMailer) waitForOTP(t *testing.T) string {
	t.Helper()
	select {
	case code := <-m.ch:
		return code
	case <-time.After(2 * time.Second):
		t.Fatal("no OTP delivered")
		return ""
	}
}

// --- helpers ---

func testConfig() *utils.Config {
	return &utils.Config{
		JWT: utils.JWTConfig{Secret: "test-secret", ExpiryHours: 1},
		OTP: utils.OTPConfig{ExpiryMinutes: 10, Length: 6},
	}
}

func newTestAuthService(t *testing.T) (AuthService, *fakeUserRepo, *fakeMailer) {
	t.Helper()
	repo := newFakeUserRepo()
	m := newFakeMailer()
	svc := NewAuthService(&repository.Repository{User: repo}, m, testConfig(), zap.NewNop())
	return svc, repo, m
}

func registerRider(t *testing.T, svc AuthService, email, password string) {
	t.Helper()
	_, err := svc.Register(context.Background(), &request.RegisterRequest{
		Name:     "Test Rider",
		Email:    email,
		Password: password,
		Role:     "RIDER",
	})
	require.NoError(t, err)
}

// --- registration / login ---

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	registerRider(t, svc, "a@x.com", "password1")

	_, err := svc.Register(ctx, &request.RegisterRequest{
		Name:     "Other",
		Email:    "a@x.com",
		Password: "password2",
		Role:     "RIDER",
	})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	// Case-insensitive comparison
	_, err = svc.Register(ctx, &request.RegisterRequest{
		Name:     "Other",
		Email:    "A@X.com",
		Password: "password2",
		Role:     "RIDER",
	})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegister_DriverGetsPendingStatus(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestAuthService(t)
	plate := "KA-01-1234"

	resp, err := svc.Register(context.Background(), &request.RegisterRequest{
		Name:        "Test Driver",
		Email:       "d@x.com",
		Password:    "password1",
		Role:        "DRIVER",
		NumberPlate: &plate,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleDriver, resp.Role)
	assert.Equal(t, entity.DriverPending, resp.DriverStatus)
	require.NotNil(t, resp.NumberPlate)
	assert.Equal(t, plate, *resp.NumberPlate)
}

func TestLogin_Scenarios(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	registerRider(t, svc, "a@x.com", "password1")

	// Unknown account and wrong password fail identically
	_, err := svc.Login(ctx, &request.LoginRequest{Email: "nobody@x.com", Password: "password1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &request.LoginRequest{Email: "a@x.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Correct credentials yield a token carrying the role
	resp, err := svc.Login(ctx, &request.LoginRequest{Email: "a@x.com", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleRider, resp.Role)

	_, role, err := utils.ParseToken(resp.Token, []byte("test-secret"))
	require.NoError(t, err)
	assert.Equal(t, "RIDER", role)
}

// --- google linking ---

func googleProfile() *oauth.Profile {
	return &oauth.Profile{
		ID:      "google-123",
		Email:   "g@x.com",
		Name:    "Google User",
		Picture: "https://example.com/p.jpg",
	}
}

func TestLoginWithGoogle_CreatesRiderOnce(t *testing.T) {
	t.Parallel()
	svc, repo, _ := newTestAuthService(t)
	ctx := context.Background()

	resp1, err := svc.LoginWithGoogle(ctx, googleProfile())
	require.NoError(t, err)
	assert.Equal(t, entity.RoleRider, resp1.Role)

	// Same profile again resolves to the same account, no duplicate
	resp2, err := svc.LoginWithGoogle(ctx, googleProfile())
	require.NoError(t, err)

	id1, _, err := utils.ParseToken(resp1.Token, []byte("test-secret"))
	require.NoError(t, err)
	id2, _, err := utils.ParseToken(resp2.Token, []byte("test-secret"))
	require.NoError(t, err)
	assert.Equal(t, id1, id2)
	assert.Len(t, repo.users, 1)
}

func TestLoginWithGoogle_LinksExistingAccountByEmail(t *testing.T) {
	t.Parallel()
	svc, repo, _ := newTestAuthService(t)
	ctx := context.Background()

	registerRider(t, svc, "g@x.com", "password1")

	resp, err := svc.LoginWithGoogle(ctx, googleProfile())
	require.NoError(t, err)
	assert.Equal(t, entity.RoleRider, resp.Role)
	assert.Len(t, repo.users, 1)

	// Link kept the password, so credential login still works
	_, err = svc.Login(ctx, &request.LoginRequest{Email: "g@x.com", Password: "password1"})
	require.NoError(t, err)

	// The attached identifier is never overwritten by a later callback
	other := googleProfile()
	other.ID = "google-456"
	_, err = svc.LoginWithGoogle(ctx, other)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	user, err := repo.FindByEmail(ctx, "g@x.com")
	require.NoError(t, err)
	require.NotNil(t, user.GoogleID)
	assert.Equal(t, "google-123", *user.GoogleID)
}

func TestLoginWithGoogle_MissingEmail(t *testing.T) {
	t.Parallel()
	svc, repo, _ := newTestAuthService(t)

	profile := googleProfile()
	profile.Email = ""

	_, err := svc.LoginWithGoogle(context.Background(), profile)
	assert.ErrorIs(t, err, ErrEmailRequired)
	assert.Empty(t, repo.users)
}

func TestLoginWithGoogle_NoPasswordLogin(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.LoginWithGoogle(ctx, googleProfile())
	require.NoError(t, err)

	// Google-created accounts cannot log in with any password
	for _, pw := range []string{"password1", "google-123", "guess-the-id"} {
		_, err = svc.Login(ctx, &request.LoginRequest{Email: "g@x.com", Password: pw})
		assert.ErrorIs(t, err, ErrInvalidCredentials, "password %q must be rejected", pw)
	}
}

// --- password reset ---

func TestForgotPassword_UnknownEmail(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestAuthService(t)

	err := svc.ForgotPassword(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestForgotPassword_DeliversStoredCode(t *testing.T) {
	t.Parallel()
	svc, repo, m := newTestAuthService(t)
	ctx := context.Background()

	registerRider(t, svc, "a@x.com", "password1")
	require.NoError(t, svc.ForgotPassword(ctx, "a@x.com"))

	delivered := m.waitForOTP(t)
	assert.Len(t, delivered, 6)
	assert.Equal(t, repo.storedOTP(t, "a@x.com"), delivered)
}

func TestForgotPassword_MailFailureKeepsCode(t *testing.T) {
	t.Parallel()
	svc, repo, m := newTestAuthService(t)
	ctx := context.Background()

	registerRider(t, svc, "a@x.com", "password1")

	m.mu.Lock()
	m.err = errors.New("smtp down")
	m.mu.Unlock()

	require.NoError(t, svc.ForgotPassword(ctx, "a@x.com"))

	// The stored code stays redeemable even though delivery failed
	code := repo.storedOTP(t, "a@x.com")
	err := svc.ResetPassword(ctx, &request.ResetPasswordRequest{
		Email:       "a@x.com",
		OTP:         code,
		NewPassword: "password2",
	})
	require.NoError(t, err)
}

func TestResetPassword_FullFlow(t *testing.T) {
	t.Parallel()
	svc, repo, _ := newTestAuthService(t)
	ctx := context.Background()

	registerRider(t, svc, "a@x.com", "password1")
	require.NoError(t, svc.ForgotPassword(ctx, "a@x.com"))
	code := repo.storedOTP(t, "a@x.com")

	err := svc.ResetPassword(ctx, &request.ResetPasswordRequest{
		Email:       "a@x.com",
		OTP:         code,
		NewPassword: "password2",
	})
	require.NoError(t, err)

	// Old password rejected, new one accepted
	_, err = svc.Login(ctx, &request.LoginRequest{Email: "a@x.com", Password: "password1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &request.LoginRequest{Email: "a@x.com", Password: "password2"})
	require.NoError(t, err)
}

func TestResetPassword_SingleUse(t *testing.T) {
	t.Parallel()
	svc, repo, _ := newTestAuthService(t)
	ctx := context.Background()

	registerRider(t, svc, "a@x.com", "password1")
	require.NoError(t, svc.ForgotPassword(ctx, "a@x.com"))
	code := repo.storedOTP(t, "a@x.com")

	req := &request.ResetPasswordRequest{Email: "a@x.com", OTP: code, NewPassword: "password2"}
	require.NoError(t, svc.ResetPassword(ctx, req))

	// The same code cannot be redeemed again
	req.NewPassword = "password3"
	assert.ErrorIs(t, svc.ResetPassword(ctx, req), ErrInvalidOrExpiredOTP)
}

func TestResetPassword_OnlyLatestCodeValid(t *testing.T) {
	t.Parallel()
	svc, repo, _ := newTestAuthService(t)
	ctx := context.Background()

	registerRider(t, svc, "a@x.com", "password1")

	require.NoError(t, svc.ForgotPassword(ctx, "a@x.com"))
	first := repo.storedOTP(t, "a@x.com")

	require.NoError(t, svc.ForgotPassword(ctx, "a@x.com"))
	second := repo.storedOTP(t, "a@x.com")

	if first != second {
		err := svc.ResetPassword(ctx, &request.ResetPasswordRequest{
			Email:       "a@x.com",
			OTP:         first,
			NewPassword: "password2",
		})
		assert.ErrorIs(t, err, ErrInvalidOrExpiredOTP)
	}

	err := svc.ResetPassword(ctx, &request.ResetPasswordRequest{
		Email:       "a@x.com",
		OTP:         second,
		NewPassword: "password2",
	})
	require.NoError(t, err)
}

func TestResetPassword_ExpiryBoundary(t *testing.T) {
	t.Parallel()
	svc, repo, _ := newTestAuthService(t)
	ctx := context.Background()

	registerRider(t, svc, "a@x.com", "password1")
	require.NoError(t, svc.ForgotPassword(ctx, "a@x.com"))
	code := repo.storedOTP(t, "a@x.com")

	// One second past expiry fails
	repo.setResetExpiry(t, "a@x.com", time.Now().Add(-1*time.Second))
	err := svc.ResetPassword(ctx, &request.ResetPasswordRequest{
		Email:       "a@x.com",
		OTP:         code,
		NewPassword: "password2",
	})
	assert.ErrorIs(t, err, ErrInvalidOrExpiredOTP)

	// One second before expiry succeeds
	repo.setResetExpiry(t, "a@x.com", time.Now().Add(1*time.Second))
	err = svc.ResetPassword(ctx, &request.ResetPasswordRequest{
		Email:       "a@x.com",
		OTP:         code,
		NewPassword: "password2",
	})
	require.NoError(t, err)
}

func TestResetPassword_WrongCodeOrEmailUniformFailure(t *testing.T) {
	t.Parallel()
	svc, repo, _ := newTestAuthService(t)
	ctx := context.Background()

	registerRider(t, svc, "a@x.com", "password1")
	require.NoError(t, svc.ForgotPassword(ctx, "a@x.com"))
	code := repo.storedOTP(t, "a@x.com")

	wrongCode := "000000"
	if wrongCode == code {
		wrongCode = "000001"
	}

	cases := []request.ResetPasswordRequest{
		{Email: "a@x.com", OTP: wrongCode, NewPassword: "password2"},
		{Email: "b@x.com", OTP: code, NewPassword: "password2"},
	}
	for _, c := range cases {
		assert.ErrorIs(t, svc.ResetPassword(ctx, &c), ErrInvalidOrExpiredOTP)
	}
}

func TestResetPassword_SetsPasswordOnGoogleOnlyAccount(t *testing.T) {
	t.Parallel()
	svc, repo, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.LoginWithGoogle(ctx, googleProfile())
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(ctx, "g@x.com"))
	code := repo.storedOTP(t, "g@x.com")

	err = svc.ResetPassword(ctx, &request.ResetPasswordRequest{
		Email:       "g@x.com",
		OTP:         code,
		NewPassword: "password1",
	})
	require.NoError(t, err)

	// The reset gave the account its first usable password
	_, err = svc.Login(ctx, &request.LoginRequest{Email: "g@x.com", Password: "password1"})
	require.NoError(t, err)
}
