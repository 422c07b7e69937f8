package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eduportal/academic-api/internal/core/domain"
)

// Context keys populated on successful authentication.
const (
	ContextKeyUser = "user"
	ContextKeyRole = "role"
)

// Authenticator resolves a bearer token to the current user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// Auth rejects requests without a valid token and injects the user and role
// into the context.
func Auth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if token == "" {
				return domain.ErrTokenMissing
			}
			if err := authenticate(c, auth, token); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// OptionalAuth lets anonymous requests through. A token that is present but
// fails verification is still rejected.
func OptionalAuth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if token == "" {
				return next(c)
			}
			if err := authenticate(c, auth, token); err != nil {
				return err
			}
			return next(c)
		}
	}
}

func authenticate(c echo.Context, auth Authenticator, token string) error {
	user, err := auth.Authenticate(c.Request().Context(), token)
	if err != nil {
		return err
	}
	c.Set(ContextKeyUser, user)
	c.Set(ContextKeyRole, user.Role)
	return nil
}

// BearerToken extracts the token from an Authorization header value. The
// "Bearer " scheme is optional; a bare token is accepted as is.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if strings.EqualFold(header, "Bearer") {
		return ""
	}
	if len(header) > len("Bearer ") && strings.EqualFold(header[:len("Bearer ")], "Bearer ") {
		header = header[len("Bearer "):]
	}
	return strings.TrimSpace(header)
}
