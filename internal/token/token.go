package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Verification failures, normalized from the underlying JWT library.
var (
	ErrMalformed        = errors.New("token is malformed")
	ErrInvalidSignature = errors.New("token signature is invalid")
	ErrExpired          = errors.New("token is expired")
)

const (
	DefaultAccessTTL  = time.Hour
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	JTI    string `json:"jti"`
	jwt.RegisteredClaims
}

// Service signs and verifies HS256 JWTs with a process-wide symmetric secret.
// The secret is loaded once at startup and never rotated without a restart.
type Service struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewService(secret string, accessTTL, refreshTTL time.Duration) *Service {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}

	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}

	return &Service{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Generate mints a short-lived access token for the given identity.
// Every call produces a fresh jti, even for identical inputs.
func (s *Service) Generate(userID, email string) (string, error) {
	return s.sign(userID, email, s.accessTTL)
}

// GenerateRefresh mints a long-lived refresh token. Access and refresh tokens
// are independently signed artifacts, not derivations of one another.
func (s *Service) GenerateRefresh(userID, email string) (string, error) {
	return s.sign(userID, email, s.refreshTTL)
}

func (s *Service) sign(userID, email string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()

	claims := Claims{
		UserID: userID,
		Email:  email,
		JTI:    uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return t.SignedString(s.secret)
}

// Verify parses and validates a token. Only HS256 is accepted; there is no
// algorithm negotiation. Expiry is checked with zero leeway.
func (s *Service) Verify(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithLeeway(0))

	if err != nil {
		return nil, classify(err, tokenStr)
	}

	claims, ok := parsed.Claims.(*Claims)

	if !ok || !parsed.Valid {
		return nil, ErrInvalidSignature
	}

	return claims, nil
}

func classify(err error, tokenStr string) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrInvalidSignature
	}

	// Not structurally header.claims.signature? Then it was never a token.
	if strings.Count(tokenStr, ".") != 2 {
		return ErrMalformed
	}

	return ErrInvalidSignature
}
