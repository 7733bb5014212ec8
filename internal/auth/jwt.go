// Package auth issues and verifies the HS256 bearer tokens that scope
// every API call to one tenant.
package auth

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenLifetime = 168 * time.Hour

var jwtSecret []byte

// InitJWTSecret loads the signing key from JWT_SECRET. Must run before
// any token is issued or verified.
func InitJWTSecret() error {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return errors.New("JWT_SECRET environment variable is not set")
	}
	jwtSecret = []byte(secret)
	return nil
}

// GenerateJWT issues a token scoping the bearer to a single tenant.
// Subject identifies the calling service or operator for audit trails.
func GenerateJWT(tenantID, subject string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"tenant_id": tenantID,
		"sub":       subject,
		"exp":       time.Now().Add(tokenLifetime).Unix(),
	})
	return token.SignedString(jwtSecret)
}

// VerifyJWT parses and validates a token, rejecting any signing method
// other than HMAC.
func VerifyJWT(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	return token, nil
}
