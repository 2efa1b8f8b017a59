package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/spendwise/expense-api/internal/core/domain"
)

const testSecret = "middleware-test-secret"

type memRevoker struct {
	revoked map[string]bool
	err     error
}

func (r *memRevoker) Revoke(_ context.Context, jti string, _ time.Duration) error {
	if r.revoked == nil {
		r.revoked = make(map[string]bool)
	}
	r.revoked[jti] = true
	return nil
}

func (r *memRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	return r.revoked[jti], nil
}

func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func validClaims() jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"sub":            "user-0001",
		"email":          "ana@example.com",
		"email_verified": false,
		"jti":            "jti-123",
		"iat":            now.Unix(),
		"exp":            now.Add(time.Hour).Unix(),
	}
}

// invoke runs the middleware against a request with the given Authorization
// header and reports the echo.HTTPError (nil when the chain proceeded).
func invoke(t *testing.T, header string, revoker *memRevoker) (*echo.HTTPError, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/expenses", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	err := Auth(testSecret, revoker)(next)(c)
	if err == nil {
		return nil, c
	}
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T: %v", err, err)
	}
	return he, c
}

func TestAuth_ValidTokenInjectsIdentity(t *testing.T) {
	token := signToken(t, testSecret, jwt.SigningMethodHS256, validClaims())

	he, c := invoke(t, "Bearer "+token, &memRevoker{})
	if he != nil {
		t.Fatalf("expected pass-through, got %d %v", he.Code, he.Message)
	}
	if got := c.Get("user_id"); got != "user-0001" {
		t.Errorf("user_id: got %v", got)
	}
	if got := c.Get("email"); got != "ana@example.com" {
		t.Errorf("email: got %v", got)
	}
	if got := c.Get("jti"); got != "jti-123" {
		t.Errorf("jti: got %v", got)
	}
	if exp, ok := c.Get("token_expires_at").(time.Time); !ok || exp.IsZero() {
		t.Errorf("token_expires_at: got %v", c.Get("token_expires_at"))
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	he, _ := invoke(t, "", &memRevoker{})
	if he == nil || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", he)
	}
	if he.Message != "missing authorization header" {
		t.Errorf("message: got %v", he.Message)
	}
}

func TestAuth_NotBearerScheme(t *testing.T) {
	he, _ := invoke(t, "Basic dXNlcjpwYXNz", &memRevoker{})
	if he == nil || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", he)
	}
	if he.Message != "invalid authorization header" {
		t.Errorf("message: got %v", he.Message)
	}
}

func TestAuth_BearerCaseInsensitive(t *testing.T) {
	token := signToken(t, testSecret, jwt.SigningMethodHS256, validClaims())
	he, _ := invoke(t, "bearer "+token, &memRevoker{})
	if he != nil {
		t.Errorf("lowercase scheme must be accepted, got %v", he)
	}
}

func TestAuth_GarbageToken(t *testing.T) {
	he, _ := invoke(t, "Bearer not.a.jwt", &memRevoker{})
	if he == nil || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", he)
	}
	if he.Message != "malformed token" {
		t.Errorf("message: got %v", he.Message)
	}
}

func TestAuth_WrongSecret(t *testing.T) {
	token := signToken(t, "some-other-secret", jwt.SigningMethodHS256, validClaims())
	he, _ := invoke(t, "Bearer "+token, &memRevoker{})
	if he == nil || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", he)
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	claims := validClaims()
	claims["exp"] = time.Now().Add(-time.Hour).Unix()
	token := signToken(t, testSecret, jwt.SigningMethodHS256, claims)

	he, _ := invoke(t, "Bearer "+token, &memRevoker{})
	if he == nil || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", he)
	}
	if he.Message != "token expired" {
		t.Errorf("message: got %v", he.Message)
	}
}

func TestAuth_RejectsNonHS256(t *testing.T) {
	// HS512 is still an HMAC method over the same secret, so the signature
	// parses; the alg pin must reject it anyway.
	token := signToken(t, testSecret, jwt.SigningMethodHS512, validClaims())

	he, _ := invoke(t, "Bearer "+token, &memRevoker{})
	if he == nil || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for non-HS256 token, got %v", he)
	}
}

func TestAuth_RevokedToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.SigningMethodHS256, validClaims())
	revoker := &memRevoker{}
	_ = revoker.Revoke(context.Background(), "jti-123", time.Hour)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/expenses", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	c := e.NewContext(req, httptest.NewRecorder())

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	err := Auth(testSecret, revoker)(next)(c)
	// The sentinel reaches the centralized error handler, which maps it to
	// 401 "token revoked".
	if !errors.Is(err, domain.ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked, got %v", err)
	}
}

func TestAuth_RevocationCheckFailureIsDenied(t *testing.T) {
	token := signToken(t, testSecret, jwt.SigningMethodHS256, validClaims())
	revoker := &memRevoker{err: context.DeadlineExceeded}

	he, _ := invoke(t, "Bearer "+token, revoker)
	if he == nil || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 when revocation store is unreachable, got %v", he)
	}
	if he.Message != "unable to verify token" {
		t.Errorf("message: got %v", he.Message)
	}
}

func TestAuth_HeaderWithExtraSpacesRejected(t *testing.T) {
	token := signToken(t, testSecret, jwt.SigningMethodHS256, validClaims())
	// The double space leaves a leading space in the token part, which does
	// not parse as a JWT.
	he, _ := invoke(t, "Bearer  "+token, &memRevoker{})
	if he == nil || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", he)
	}
}

func TestAuth_TokenWithoutJTISkipsRevocation(t *testing.T) {
	claims := validClaims()
	delete(claims, "jti")
	token := signToken(t, testSecret, jwt.SigningMethodHS256, claims)

	// A nil-safe path: no jti means nothing to look up.
	he, c := invoke(t, "Bearer "+token, &memRevoker{err: context.DeadlineExceeded})
	if he != nil {
		t.Fatalf("expected pass-through, got %v", he)
	}
	if got := c.Get("jti"); got != "" {
		t.Errorf("jti: expected empty, got %v", got)
	}
}
