package ports

import (
	"context"
	"time"

	"github.com/spendwise/expense-api/internal/core/domain"
)

// RegisterInput carries the data needed to create a new account.
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

// TokenClaims is the verified identity extracted from a bearer token.
type TokenClaims struct {
	UserID        string
	Email         string
	EmailVerified bool
	JTI           string
	ExpiresAt     time.Time
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Logout revokes the presented token for its remaining lifetime.
	Logout(ctx context.Context, claims TokenClaims) error
	Profile(ctx context.Context, userID string) (*domain.User, error)
}

// TokenRevoker is the revocation list consulted on every authenticated
// request and written on logout.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
