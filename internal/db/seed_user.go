package db

import (
	"context"
	"errors"
	"time"

	"github.com/authhub/authhub/internal/config"
	"github.com/authhub/authhub/internal/domain/user"
	"github.com/authhub/authhub/internal/security"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSeedUser creates the bootstrap user when SEED_EMAIL/SEED_PASSWORD are
// configured and the account does not exist yet. Idempotent across restarts.
func EnsureSeedUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config, hasher security.PasswordHasher) error {
	if cfg.SeedEmail == "" || cfg.SeedPassword == "" {
		return nil
	}

	// check if the user exists

	var dummy string

	err := pool.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, cfg.SeedEmail).Scan(&dummy)

	if err == nil {
		return nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := hasher.Hash(cfg.SeedPassword)

	if err != nil {
		return err
	}

	now := time.Now().UTC()

	u := user.User{
		ID:           uuid.NewString(),
		Email:        cfg.SeedEmail,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5)
		`,
		u.ID, u.Email, u.PasswordHash, u.CreatedAt, u.UpdatedAt,
	)

	return err
}
