package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/carrier-gateway/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	var te *domain.TransportError
	switch {
	case errors.Is(err, domain.ErrUnknownCarrier):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrUnsupportedOperation):
		return http.StatusNotImplemented, err.Error()
	case errors.Is(err, domain.ErrNoPackages):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrMissingCredential):
		// a credential fault is a deployment problem, not the caller's
		log.Error().Err(err).Msg("carrier credential missing")
		return http.StatusInternalServerError, "carrier not configured"
	case errors.As(err, &te):
		log.Error().Err(te.Err).Str("operation", te.Operation).Msg("carrier unreachable")
		return http.StatusBadGateway, "carrier unreachable"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
