package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carries the account identity and role inside the signed token.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// GenerateToken signs an HS256 token embedding the user ID and role,
// expiring ttl after issuance.
func GenerateToken(userID, role string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: role,
	})

	return token.SignedString(secret)
}

// ParseToken validates signature and expiry and returns the embedded identity.
// Any malformed, tampered or expired token yields ErrInvalidToken.
func ParseToken(tokenString string, secret []byte) (userID, role string, err error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", "", ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return "", "", ErrInvalidToken
	}

	return claims.Subject, claims.Role, nil
}
