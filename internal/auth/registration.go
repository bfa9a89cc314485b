package auth

import (
	"context"
	"errors"

	"github.com/authhub/authhub/internal/domain/user"
	"github.com/authhub/authhub/internal/notifications"
)

type RegistrationUseCase struct {
	users UserRepository
	audit notifications.Notifier
}

func NewRegistrationUseCase(users UserRepository, audit notifications.Notifier) *RegistrationUseCase {
	return &RegistrationUseCase{users: users, audit: audit}
}

// Register delegates to the repository, which hashes the password before
// persisting and enforces email uniqueness. No retries on conflict.
func (uc *RegistrationUseCase) Register(ctx context.Context, email, password string) (user.User, error) {
	created, err := uc.users.Create(ctx, email, password)

	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return user.User{}, ErrDuplicateEmail
		}

		return user.User{}, ErrUpstreamUnavailable
	}

	if uc.audit != nil {
		_ = uc.audit.SendAuthEvent(ctx, notifications.AuthEventInput{
			Kind:    "registration",
			Outcome: "success",
			Email:   created.Email,
			UserID:  created.ID,
		})
	}

	return created, nil
}
