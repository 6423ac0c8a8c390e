package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/finscope/estimates-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg, known := resolveError(err)
		if !known {
			// Unexpected error: log the real cause, return a generic message.
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("unhandled error")
		}
		if code == http.StatusUnauthorized {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

// statusOf maps err to the status code the client receives.
func statusOf(err error) int {
	code, _, _ := resolveError(err)
	return code
}

// resolveError maps err to a status code and a client-safe message. known is
// false for errors no mapping covers.
func resolveError(err error) (code int, msg string, known bool) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message), true
	}

	var notFound *domain.EstimateNotFoundError
	var invalid *domain.InvalidPeriodsError

	switch {
	case errors.Is(err, domain.ErrDuplicateUsername):
		return http.StatusBadRequest, "username already registered", true
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "incorrect username or password", true
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "could not validate credentials", true
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "cannot access estimates of another user", true
	case errors.As(err, &notFound):
		return http.StatusNotFound, notFound.Error(), true
	case errors.Is(err, domain.ErrEstimateNotFound):
		return http.StatusNotFound, "estimate not found", true
	case errors.As(err, &invalid):
		return http.StatusInternalServerError, invalid.Error(), true
	case errors.Is(err, domain.ErrInvalidPeriods):
		return http.StatusInternalServerError, "invalid periods", true
	case errors.Is(err, domain.ErrUpstreamFailure):
		// Already logged by the market service.
		return http.StatusInternalServerError, "failed to fetch market data", true
	}
	return http.StatusInternalServerError, "internal server error", false
}
