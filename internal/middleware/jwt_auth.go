package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
	"github.com/socialhub/backend/internal/models"
)

// JWTAuthenticator verifies HMAC-signed access tokens issued by the
// external auth service.
type JWTAuthenticator struct {
	secret []byte
}

// NewJWTAuthenticator creates a JWTAuthenticator with the shared signing
// secret.
func NewJWTAuthenticator(secret string) *JWTAuthenticator {
	return &JWTAuthenticator{secret: []byte(secret)}
}

// Authenticate parses and verifies the token and extracts the requester's
// identity from its claims.
func (a *JWTAuthenticator) Authenticate(_ context.Context, tokenString string) (uint, bool, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return 0, false, err
	}
	if !token.Valid {
		return 0, false, errors.New("invalid token")
	}
	return claims.UserID, claims.IsAdmin, nil
}
