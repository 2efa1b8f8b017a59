package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/spendwise/expense-api/internal/core/ports"
)

// ctxUserID extracts the verified user id injected by the Auth middleware.
// An empty id means the middleware did not run; fail fast with 401 before
// any service call.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, nil
}

// ctxTokenClaims reassembles the full verified claims for logout.
func ctxTokenClaims(c echo.Context) (ports.TokenClaims, error) {
	userID, err := ctxUserID(c)
	if err != nil {
		return ports.TokenClaims{}, err
	}

	email, _ := c.Get("email").(string)
	verified, _ := c.Get("email_verified").(bool)
	jti, _ := c.Get("jti").(string)
	expiresAt, _ := c.Get("token_expires_at").(time.Time)

	return ports.TokenClaims{
		UserID:        userID,
		Email:         email,
		EmailVerified: verified,
		JTI:           jti,
		ExpiresAt:     expiresAt,
	}, nil
}
