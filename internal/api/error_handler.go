package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eduportal/academic-api/internal/api/handler"
	"github.com/eduportal/academic-api/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"message": "<message>", "fields": {...}}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, handler.ErrorResponse) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, handler.ErrorResponse{Message: verr.Error(), Fields: verr.Fields}
	}

	// Echo's own errors (bind failures, 404 from router, body limit, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			log.Debug().Err(he.Internal).Int("status", he.Code).Msg("request rejected")
		}
		return he.Code, handler.ErrorResponse{Message: fmt.Sprintf("%v", he.Message)}
	}

	if code, msg, ok := statusFor(err); ok {
		return code, handler.ErrorResponse{Message: msg}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, handler.ErrorResponse{Message: "internal server error"}
}

// domainStatus maps domain sentinels to HTTP codes. The sentinel text is safe
// to show to clients.
var domainStatus = []struct {
	err  error
	code int
}{
	{domain.ErrTokenMissing, http.StatusUnauthorized},
	{domain.ErrTokenInvalid, http.StatusUnauthorized},
	{domain.ErrTokenExpired, http.StatusUnauthorized},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrUserNotFound, http.StatusNotFound},
	{domain.ErrRequestNotFound, http.StatusNotFound},
	{domain.ErrUserExists, http.StatusConflict},
	{domain.ErrInvalidID, http.StatusBadRequest},
	{domain.ErrInvalidResetToken, http.StatusBadRequest},
	{domain.ErrImageStorageUnavailable, http.StatusServiceUnavailable},
}

func statusFor(err error) (int, string, bool) {
	for _, m := range domainStatus {
		if errors.Is(err, m.err) {
			return m.code, m.err.Error(), true
		}
	}
	return 0, "", false
}
