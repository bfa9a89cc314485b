package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/authhub/authhub/internal/domain/user"
	"github.com/authhub/authhub/internal/observability"
	"github.com/authhub/authhub/internal/security"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// UsersRepo owns the users table. It hashes passwords before persisting;
// callers hand it plaintext and never see the hasher.
type UsersRepo struct {
	pool   *pgxpool.Pool
	hasher security.PasswordHasher
	prom   *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, hasher security.PasswordHasher, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{pool: pool, hasher: hasher, prom: prom}
}

func (r *UsersRepo) FindByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	var scanErr error

	err := r.observe("users.find_by_email", func() error {
		scanErr = r.pool.QueryRow(
			ctx,
			`SELECT id, email, password_hash, created_at, updated_at
	         FROM users
	         WHERE email = $1`,
			email,
		).Scan(
			&u.ID,
			&u.Email,
			&u.PasswordHash,
			&u.CreatedAt,
			&u.UpdatedAt,
		)

		// a miss is a normal outcome, not a DB error
		if errors.Is(scanErr, pgx.ErrNoRows) {
			return nil
		}

		return scanErr
	})

	if err != nil {
		return user.User{}, err
	}

	if errors.Is(scanErr, pgx.ErrNoRows) {
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

	err = r.observe("users.create", func() error {
		_, execErr := r.pool.Exec(ctx,
			`INSERT INTO users (id, email, password_hash, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5)
			`,
			u.ID, u.Email, u.PasswordHash, u.CreatedAt, u.UpdatedAt,
		)
		return execErr
	})

	if err != nil {
		var pgErr *pgconn.PgError

		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user.User{}, user.ErrEmailTaken
		}

		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom == nil {
		return fn()
	}

	return r.prom.ObserveDB(op, fn)
}
