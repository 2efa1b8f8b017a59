package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/spendwise/expense-api/internal/core/domain"
)

func runErrorHandler(t *testing.T, err error, production bool) (int, errorEnvelope) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/expenses", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop(), production)(err, c)

	var env errorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode body: %v\nbody: %s", err, rec.Body.String())
	}
	return rec.Code, env
}

func TestErrorHandler_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"invalid expense", fmt.Errorf("%w: amount must be a positive finite number", domain.ErrInvalidExpense),
			http.StatusBadRequest, "invalid expense: amount must be a positive finite number"},
		{"invalid report query", fmt.Errorf("%w: month must be between 1 and 12", domain.ErrInvalidReportQuery),
			http.StatusBadRequest, "invalid report query: month must be between 1 and 12"},
		{"email exists", domain.ErrEmailExists, http.StatusBadRequest, "email already registered"},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"token revoked", domain.ErrTokenRevoked, http.StatusUnauthorized, "token revoked"},
		{"expense not found", domain.ErrExpenseNotFound, http.StatusNotFound, "expense not found"},
		{"wrapped expense not found", fmt.Errorf("update: %w", domain.ErrExpenseNotFound),
			http.StatusNotFound, "expense not found"},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, env := runErrorHandler(t, tc.err, true)
			if code != tc.wantCode {
				t.Errorf("code: want %d, got %d", tc.wantCode, code)
			}
			if env.Success {
				t.Error("success must be false")
			}
			if env.Message != tc.wantMsg {
				t.Errorf("message: want %q, got %q", tc.wantMsg, env.Message)
			}
		})
	}
}

func TestErrorHandler_EchoHTTPErrorPassesThrough(t *testing.T) {
	code, env := runErrorHandler(t, echo.NewHTTPError(http.StatusUnauthorized, "token expired"), true)
	if code != http.StatusUnauthorized {
		t.Errorf("code: want 401, got %d", code)
	}
	if env.Message != "token expired" {
		t.Errorf("message: got %q", env.Message)
	}
}

func TestErrorHandler_UnexpectedErrorHidesDetailInProduction(t *testing.T) {
	boom := errors.New("connection reset by peer")

	code, env := runErrorHandler(t, boom, true)
	if code != http.StatusInternalServerError {
		t.Errorf("code: want 500, got %d", code)
	}
	if env.Message != "internal server error" {
		t.Errorf("message: got %q", env.Message)
	}
	if env.Error != "" {
		t.Errorf("production must not leak detail, got %q", env.Error)
	}

	_, env = runErrorHandler(t, boom, false)
	if env.Error != "connection reset by peer" {
		t.Errorf("development detail: got %q", env.Error)
	}
}
