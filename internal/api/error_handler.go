package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/spendwise/expense-api/internal/core/domain"
)

// errorEnvelope mirrors the success envelope with success=false. Error holds
// detail for non-production environments only.
type errorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the uniform envelope: {"success": false, "message": "<reason>"}.
//
// Ownership mismatches and missing records share the same 404 so record
// existence never leaks across users.
func NewHTTPErrorHandler(log zerolog.Logger, production bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg, detail := resolveError(err, log, c, production)
		_ = c.JSON(code, errorEnvelope{Message: msg, Error: detail})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context, production bool) (int, string, string) {
	// Echo's own errors (bind failures, 404 from router, middleware 401s).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message), ""
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidExpense),
		errors.Is(err, domain.ErrInvalidReportQuery):
		return http.StatusBadRequest, err.Error(), ""
	case errors.Is(err, domain.ErrEmailExists):
		return http.StatusBadRequest, "email already registered", ""
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials", ""
	case errors.Is(err, domain.ErrTokenRevoked):
		return http.StatusUnauthorized, "token revoked", ""
	case errors.Is(err, domain.ErrExpenseNotFound):
		return http.StatusNotFound, "expense not found", ""
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found", ""
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	detail := ""
	if !production {
		detail = err.Error()
	}
	return http.StatusInternalServerError, "internal server error", detail
}
