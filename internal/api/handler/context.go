package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/eduportal/academic-api/internal/api/middleware"
	"github.com/eduportal/academic-api/internal/core/domain"
)

// currentUser returns the user attached by the Auth middleware. A missing user
// means the route was mounted without it, reported as an unauthenticated call.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := c.Get(middleware.ContextKeyUser).(*domain.User)
	if !ok || user == nil {
		return nil, domain.ErrTokenMissing
	}
	return user, nil
}

// optionalUser returns the attached user or nil for anonymous callers.
func optionalUser(c echo.Context) *domain.User {
	user, _ := c.Get(middleware.ContextKeyUser).(*domain.User)
	return user
}
