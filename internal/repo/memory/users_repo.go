package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/authhub/authhub/internal/domain/user"
	"github.com/authhub/authhub/internal/security"
	"github.com/google/uuid"
)

// UsersRepo is the in-memory counterpart of the postgres repo. Same contract:
// it hashes before storing and enforces email uniqueness. Used in dev mode
// and tests where a database would be overkill.
type UsersRepo struct {
	mu      sync.RWMutex
	byEmail map[string]user.User
	hasher  security.PasswordHasher
}

func NewUsersRepo(hasher security.PasswordHasher) *UsersRepo {
	return &UsersRepo{
		byEmail: make(map[string]user.User),
		hasher:  hasher,
	}
}

func (r *UsersRepo) FindByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.RLock()
	u, ok := r.byEmail[normalize(email)]
	r.mu.RUnlock()

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return u, nil
}

func (r *UsersRepo) Create(ctx context.Context, email, password string) (user.User, error) {
	hash, err := r.hasher.Hash(password)

	if err != nil {
		return user.User{}, err
	}

	now := time.Now().UTC()

	u := user.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	key := normalize(email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[key]; exists {
		return user.User{}, user.ErrEmailTaken
	}

	r.byEmail[key] = u

	return u, nil
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
