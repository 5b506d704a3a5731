package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	token, err := GenerateToken("user-123", "RIDER", secret, time.Hour)
	require.NoError(t, err)

	userID, role, err := ParseToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
	assert.Equal(t, "RIDER", role)
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	token, err := GenerateToken("u1", "DRIVER", secret, -1*time.Second)
	require.NoError(t, err)

	_, _, err = ParseToken(token, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := GenerateToken("u2", "RIDER", []byte("right-secret"), time.Hour)
	require.NoError(t, err)

	_, _, err = ParseToken(token, []byte("wrong-secret"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Tampered(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	token, err := GenerateToken("u3", "RIDER", secret, time.Hour)
	require.NoError(t, err)

	// Flip one character of the payload
	tampered := []byte(token)
	mid := len(tampered) / 2
	if tampered[mid] == 'A' {
		tampered[mid] = 'B'
	} else {
		tampered[mid] = 'A'
	}

	_, _, err = ParseToken(string(tampered), secret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Malformed(t *testing.T) {
	t.Parallel()

	_, _, err := ParseToken("not.a.jwt", []byte("k"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}
