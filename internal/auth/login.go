package auth

import (
	"context"
	"errors"

	"github.com/authhub/authhub/internal/domain/user"
	"github.com/authhub/authhub/internal/notifications"
)

type LoginUseCase struct {
	users  UserRepository
	tokens TokenService
	hasher PasswordHasher
	audit  notifications.Notifier
}

func NewLoginUseCase(users UserRepository, tokens TokenService, hasher PasswordHasher, audit notifications.Notifier) *LoginUseCase {
	return &LoginUseCase{
		users:  users,
		tokens: tokens,
		hasher: hasher,
		audit:  audit,
	}
}

// Login verifies credentials and mints a fresh access+refresh pair.
// Unknown email and wrong password both surface as ErrInvalidCredentials with
// the same message and comparable latency; a dummy bcrypt compare runs on the
// unknown-email branch so timing does not become an email-existence oracle.
func (uc *LoginUseCase) Login(ctx context.Context, creds user.Credentials) (AuthResult, error) {
	found, err := uc.users.FindByEmail(ctx, creds.Email)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			uc.hasher.CompareDummy(creds.Password)
			uc.notify(ctx, notifications.AuthEventInput{Kind: "login", Outcome: "failure", Email: creds.Email})

			return AuthResult{}, ErrInvalidCredentials
		}

		return AuthResult{}, ErrUpstreamUnavailable
	}

	if !uc.hasher.Compare(creds.Password, found.PasswordHash) {
		uc.notify(ctx, notifications.AuthEventInput{Kind: "login", Outcome: "failure", Email: creds.Email})

		return AuthResult{}, ErrInvalidCredentials
	}

	access, err := uc.tokens.Generate(found.ID, found.Email)

	if err != nil {
		return AuthResult{}, ErrUpstreamUnavailable
	}

	refresh, err := uc.tokens.GenerateRefresh(found.ID, found.Email)

	if err != nil {
		return AuthResult{}, ErrUpstreamUnavailable
	}

	uc.notify(ctx, notifications.AuthEventInput{Kind: "login", Outcome: "success", Email: found.Email, UserID: found.ID})

	return AuthResult{
		AccessToken:  access,
		RefreshToken: refresh,
		UserID:       found.ID,
		Email:        found.Email,
	}, nil
}

// Audit delivery is best-effort and never fails the request.
func (uc *LoginUseCase) notify(ctx context.Context, in notifications.AuthEventInput) {
	if uc.audit == nil {
		return
	}

	_ = uc.audit.SendAuthEvent(ctx, in)
}
