package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mmynk/speechtracker/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// UserIDKey is the echo context key for the authenticated user ID.
const UserIDKey contextKey = "user_id"

// SessionResolver resolves a session token to a live session.
type SessionResolver interface {
	Authenticate(ctx context.Context, token string) (*models.Session, error)
}

// UserID returns the authenticated user ID for the request, or 0.
func UserID(c echo.Context) int64 {
	userID, _ := c.Get(string(UserIDKey)).(int64)
	return userID
}

// TokenFromRequest reads the session token from the named cookie, falling
// back to an "Authorization: Bearer" header.
func TokenFromRequest(r *http.Request, cookieName string) string {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get(echo.HeaderAuthorization)
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// RequireSession rejects requests without a live session with 401 and
// otherwise records the user ID on the echo context.
func RequireSession(resolver SessionResolver, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := TokenFromRequest(c.Request(), cookieName)
			if token == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Not authenticated"})
			}

			session, err := resolver.Authenticate(c.Request().Context(), token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Not authenticated"})
			}

			c.Set(string(UserIDKey), session.UserID)

			return next(c)
		}
	}
}
