package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/spendwise/expense-api/internal/core/domain"
	"github.com/spendwise/expense-api/internal/core/ports"
)

type stubUserRepo struct {
	byEmail      map[string]*domain.User
	nextID       int
	touchErr     error
	lastTouchID  string
	lastTouchFor time.Time
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byEmail: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	if _, exists := r.byEmail[u.Email]; exists {
		return nil, domain.ErrEmailExists
	}
	r.nextID++
	clone := *u
	clone.ID = fmt.Sprintf("user-%04d", r.nextID)
	r.byEmail[clone.Email] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	if r.touchErr != nil {
		return r.touchErr
	}
	r.lastTouchID = id
	r.lastTouchFor = at
	return nil
}

type stubRevoker struct {
	revoked map[string]time.Duration
}

func newStubRevoker() *stubRevoker {
	return &stubRevoker{revoked: make(map[string]time.Duration)}
}

func (r *stubRevoker) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	r.revoked[jti] = ttl
	return nil
}

func (r *stubRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := r.revoked[jti]
	return ok, nil
}

const testSecret = "test-signing-secret"

func newAuthService(repo ports.UserRepository, revoker ports.TokenRevoker) *AuthService {
	return NewAuthService(repo, revoker, testSecret, time.Hour, discardLogger)
}

func parseTestToken(t *testing.T, token string) jwt.MapClaims {
	t.Helper()
	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil {
		t.Fatalf("token does not parse: %v", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("unexpected claims type %T", parsed.Claims)
	}
	return claims
}

func TestAuthService_Register_IssuesSignedToken(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, newStubRevoker())

	token, user, err := svc.Register(context.Background(), ports.RegisterInput{
		Email:       "ana@example.com",
		Password:    "s3cret-pass",
		DisplayName: "Ana",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.ID == "" || user.Email != "ana@example.com" || user.DisplayName != "Ana" {
		t.Errorf("user: %+v", user)
	}
	if user.EmailVerified {
		t.Error("new accounts must start unverified")
	}
	if !user.Active {
		t.Error("new accounts must start active")
	}
	if user.PasswordHash == "s3cret-pass" || user.PasswordHash == "" {
		t.Error("password must be stored as a hash")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pass")) != nil {
		t.Error("stored hash must verify the original password")
	}

	claims := parseTestToken(t, token)
	if claims["sub"] != user.ID {
		t.Errorf("sub claim: want %q, got %v", user.ID, claims["sub"])
	}
	if claims["email"] != "ana@example.com" {
		t.Errorf("email claim: got %v", claims["email"])
	}
	if jti, _ := claims["jti"].(string); jti == "" {
		t.Error("token must carry a jti for revocation")
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, newStubRevoker())

	in := ports.RegisterInput{Email: "dup@example.com", Password: "password1"}
	if _, _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, _, err := svc.Register(context.Background(), in)
	if !errors.Is(err, domain.ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got %v", err)
	}
}

func TestAuthService_Register_RejectsEmptyCredentials(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), newStubRevoker())

	for _, in := range []ports.RegisterInput{
		{Email: "", Password: "password1"},
		{Email: "x@example.com", Password: ""},
	} {
		if _, _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("input %+v: expected ErrInvalidCredentials, got %v", in, err)
		}
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, newStubRevoker())

	_, registered, err := svc.Register(context.Background(), ports.RegisterInput{
		Email: "bo@example.com", Password: "correct-horse",
	})
	if err != nil {
		t.Fatal(err)
	}

	token, user, err := svc.Login(context.Background(), "bo@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != registered.ID {
		t.Errorf("user id: want %q, got %q", registered.ID, user.ID)
	}
	if repo.lastTouchID != registered.ID {
		t.Error("login must refresh last_login_at")
	}

	claims := parseTestToken(t, token)
	if claims["sub"] != registered.ID {
		t.Errorf("sub claim: got %v", claims["sub"])
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, newStubRevoker())

	if _, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Email: "bo@example.com", Password: "correct-horse",
	}); err != nil {
		t.Fatal(err)
	}

	_, _, err := svc.Login(context.Background(), "bo@example.com", "wrong-horse")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), newStubRevoker())

	_, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever1")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if errors.Is(err, domain.ErrUserNotFound) {
		t.Error("unknown email must not surface as a not-found error")
	}
}

func TestAuthService_Login_UnknownEmailAndWrongPasswordAreIndistinguishable(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, newStubRevoker())

	if _, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Email: "bo@example.com", Password: "correct-horse",
	}); err != nil {
		t.Fatal(err)
	}

	_, _, unknownErr := svc.Login(context.Background(), "ghost@example.com", "correct-horse")
	_, _, wrongErr := svc.Login(context.Background(), "bo@example.com", "wrong-horse")

	if !errors.Is(unknownErr, domain.ErrInvalidCredentials) || !errors.Is(wrongErr, domain.ErrInvalidCredentials) {
		t.Fatalf("both failure modes must map to ErrInvalidCredentials: %v / %v", unknownErr, wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Errorf("failure modes must be indistinguishable: %q vs %q", unknownErr.Error(), wrongErr.Error())
	}
}

func TestAuthService_Login_TouchFailureDoesNotBlockLogin(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, newStubRevoker())

	if _, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Email: "bo@example.com", Password: "correct-horse",
	}); err != nil {
		t.Fatal(err)
	}
	repo.touchErr = errors.New("write timeout")

	if _, _, err := svc.Login(context.Background(), "bo@example.com", "correct-horse"); err != nil {
		t.Errorf("login must survive a failed timestamp refresh, got %v", err)
	}
}

func TestAuthService_Logout_RevokesForRemainingLifetime(t *testing.T) {
	revoker := newStubRevoker()
	svc := newAuthService(newStubUserRepo(), revoker)

	claims := ports.TokenClaims{
		UserID:    "user-0001",
		JTI:       "jti-abc",
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}
	if err := svc.Logout(context.Background(), claims); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ttl, ok := revoker.revoked["jti-abc"]
	if !ok {
		t.Fatal("jti must be on the revocation list")
	}
	if ttl <= 0 || ttl > 30*time.Minute {
		t.Errorf("ttl must match remaining lifetime, got %v", ttl)
	}
}

func TestAuthService_Logout_ExpiredTokenIsNoop(t *testing.T) {
	revoker := newStubRevoker()
	svc := newAuthService(newStubUserRepo(), revoker)

	claims := ports.TokenClaims{
		JTI:       "jti-expired",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	if err := svc.Logout(context.Background(), claims); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(revoker.revoked) != 0 {
		t.Error("expired tokens need no revocation entry")
	}
}

func TestAuthService_Profile(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, newStubRevoker())

	_, registered, err := svc.Register(context.Background(), ports.RegisterInput{
		Email: "cy@example.com", Password: "password1", DisplayName: "Cy",
	})
	if err != nil {
		t.Fatal(err)
	}

	profile, err := svc.Profile(context.Background(), registered.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Email != "cy@example.com" || profile.DisplayName != "Cy" {
		t.Errorf("profile: %+v", profile)
	}

	if _, err := svc.Profile(context.Background(), "user-9999"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("unknown id: expected ErrUserNotFound, got %v", err)
	}
}
