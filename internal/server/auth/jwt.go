// Package auth is the identity adapter: it mints and parses the bearer
// tokens that carry the opaque owner identifier. The core performs no
// authentication itself; it only needs a stable owner id per request.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jkalnina/docshelf/internal/common"
)

// Claims carries the registered claims plus the owner identifier.
type Claims struct {
	jwt.RegisteredClaims
	OwnerID string
}

// GenerateToken signs an HS256 token for ownerID valid for validityDuration.
func GenerateToken(ownerID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		OwnerID: ownerID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetOwnerIDFromToken validates tokenString and extracts the owner id.
func GetOwnerIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrInvalidToken
		}
		return "", err
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.OwnerID, nil
}
