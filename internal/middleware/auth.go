// Package middleware verifies bearer tokens and exposes the requester's
// identity to handlers. Token issuance belongs to the external auth
// service; this layer only verifies.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Context keys the auth middleware sets for handlers.
const (
	ContextUserID  = "userID"
	ContextIsAdmin = "isAdmin"
)

// Authenticator resolves a bearer token to the requester's identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (userID uint, isAdmin bool, err error)
}

// bearerToken extracts the token from the Authorization header. Empty when
// the header is missing or not in Bearer format.
func bearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// RequireAuth rejects requests without a valid bearer token and stores the
// requester's userID and admin flag in the context.
func RequireAuth(a Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing or malformed Authorization header")
			}
			userID, isAdmin, err := a.Authenticate(c.Request().Context(), token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}
			c.Set(ContextUserID, userID)
			c.Set(ContextIsAdmin, isAdmin)
			return next(c)
		}
	}
}

// OptionalAuth stores the requester's identity when a valid bearer token
// is present and lets the request through anonymously otherwise. Feed
// endpoints use it to enrich responses for known viewers.
func OptionalAuth(a Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token := bearerToken(c); token != "" {
				if userID, isAdmin, err := a.Authenticate(c.Request().Context(), token); err == nil {
					c.Set(ContextUserID, userID)
					c.Set(ContextIsAdmin, isAdmin)
				}
			}
			return next(c)
		}
	}
}

// UserID returns the authenticated requester's ID, zero when anonymous.
func UserID(c echo.Context) uint {
	if v, ok := c.Get(ContextUserID).(uint); ok {
		return v
	}
	return 0
}

// IsAdmin reports whether the authenticated requester is an admin.
func IsAdmin(c echo.Context) bool {
	if v, ok := c.Get(ContextIsAdmin).(bool); ok {
		return v
	}
	return false
}
