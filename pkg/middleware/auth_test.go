package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"goride/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func authTestHandler(t *testing.T, wantID uuid.UUID, wantRole string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := utils.GetUserIDFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, wantID, id)

		role, ok := utils.GetRoleFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, wantRole, role)

		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth_ValidToken(t *testing.T) {
	t.Parallel()
	cfg := utils.JWTConfig{Secret: "test-secret", ExpiryHours: 1}
	userID := uuid.New()

	token, err := utils.GenerateToken(userID.String(), "RIDER", []byte(cfg.Secret), time.Hour)
	require.NoError(t, err)

	handler := Auth(cfg, zap.NewNop())(authTestHandler(t, userID, "RIDER"))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_Rejections(t *testing.T) {
	t.Parallel()
	cfg := utils.JWTConfig{Secret: "test-secret", ExpiryHours: 1}

	expired, err := utils.GenerateToken(uuid.NewString(), "RIDER", []byte(cfg.Secret), -time.Minute)
	require.NoError(t, err)

	wrongKey, err := utils.GenerateToken(uuid.NewString(), "RIDER", []byte("other-secret"), time.Hour)
	require.NoError(t, err)

	badSubject, err := utils.GenerateToken("not-a-uuid", "RIDER", []byte(cfg.Secret), time.Hour)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"expired", "Bearer " + expired},
		{"wrong key", "Bearer " + wrongKey},
		{"non-uuid subject", "Bearer " + badSubject},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			handler := Auth(cfg, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler must not run")
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAdminKey(t *testing.T) {
	t.Parallel()
	cfg := utils.AdminConfig{APIKey: "topsecret"}

	newHandler := func(c utils.AdminConfig) http.Handler {
		return AdminKey(c, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
	}

	// Correct key passes
	req := httptest.NewRequest(http.MethodGet, "/api/admin/drivers", nil)
	req.Header.Set("X-Admin-Key", "topsecret")
	rec := httptest.NewRecorder()
	newHandler(cfg).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Wrong or missing key is forbidden
	for _, key := range []string{"", "wrong"} {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/drivers", nil)
		if key != "" {
			req.Header.Set("X-Admin-Key", key)
		}
		rec := httptest.NewRecorder()
		newHandler(cfg).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	}

	// Unconfigured key disables the endpoint entirely
	req = httptest.NewRequest(http.MethodGet, "/api/admin/drivers", nil)
	req.Header.Set("X-Admin-Key", "")
	rec = httptest.NewRecorder()
	newHandler(utils.AdminConfig{}).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
