package auth

import (
	"context"

	"github.com/authhub/authhub/internal/domain/user"
	"github.com/authhub/authhub/internal/token"
)

// Capability ports consumed by the use cases. Each has exactly one production
// implementation; tests fake them. Keep them small so fakes stay cheap.

type UserRepository interface {
	// FindByEmail returns user.ErrNotFound when no user exists for the email.
	FindByEmail(ctx context.Context, email string) (user.User, error)

	// Create hashes the plaintext password before persisting. Hashing lives
	// behind the repository boundary, not in the use cases.
	Create(ctx context.Context, email, password string) (user.User, error)
}

type TokenService interface {
	Generate(userID, email string) (string, error)
	GenerateRefresh(userID, email string) (string, error)
	Verify(tokenStr string) (*token.Claims, error)
}

type PasswordHasher interface {
	Compare(plain, hash string) bool
	CompareDummy(plain string)
}
