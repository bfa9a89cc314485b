package auth_test

import (
	"context"
	"sync"

	"github.com/authhub/authhub/internal/domain/user"
	"github.com/authhub/authhub/internal/notifications"
	"github.com/authhub/authhub/internal/token"
)

// Fake port implementations, one field per overridable behaviour.

type fakeUsersRepo struct {
	findFn   func(ctx context.Context, email string) (user.User, error)
	createFn func(ctx context.Context, email, password string) (user.User, error)
}

func (f *fakeUsersRepo) FindByEmail(ctx context.Context, email string) (user.User, error) {
	if f.findFn != nil {
		return f.findFn(ctx, email)
	}

	return user.User{}, user.ErrNotFound
}

func (f *fakeUsersRepo) Create(ctx context.Context, email, password string) (user.User, error) {
	if f.createFn != nil {
		return f.createFn(ctx, email, password)
	}

	return user.User{}, nil
}

type fakeTokens struct {
	generateFn        func(userID, email string) (string, error)
	generateRefreshFn func(userID, email string) (string, error)
	verifyFn          func(tokenStr string) (*token.Claims, error)
}

func (f *fakeTokens) Generate(userID, email string) (string, error) {
	if f.generateFn != nil {
		return f.generateFn(userID, email)
	}

	return "access-token", nil
}

func (f *fakeTokens) GenerateRefresh(userID, email string) (string, error) {
	if f.generateRefreshFn != nil {
		return f.generateRefreshFn(userID, email)
	}

	return "refresh-token", nil
}

func (f *fakeTokens) Verify(tokenStr string) (*token.Claims, error) {
	if f.verifyFn != nil {
		return f.verifyFn(tokenStr)
	}

	return &token.Claims{}, nil
}

// fakeHasher records whether the dummy compare ran so tests can assert the
// unknown-email branch burns a comparison too.
type fakeHasher struct {
	compareFn    func(plain, hash string) bool
	dummyCalled  bool
	compareCalls int
}

func (f *fakeHasher) Compare(plain, hash string) bool {
	f.compareCalls++

	if f.compareFn != nil {
		return f.compareFn(plain, hash)
	}

	return false
}

func (f *fakeHasher) CompareDummy(plain string) {
	f.dummyCalled = true
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []notifications.AuthEventInput
	err    error
}

func (f *fakeNotifier) SendAuthEvent(ctx context.Context, in notifications.AuthEventInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append(f.events, in)

	return f.err
}

func (f *fakeNotifier) recorded() []notifications.AuthEventInput {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]notifications.AuthEventInput, len(f.events))
	copy(out, f.events)

	return out
}
