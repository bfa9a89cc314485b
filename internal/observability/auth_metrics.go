package observability

import (
	"errors"
	"time"

	"github.com/authhub/authhub/internal/security"
	"github.com/authhub/authhub/internal/token"
)

func (p *Prom) ObserveLogin(result string) {
	p.LoginsTotal.WithLabelValues(result).Inc()
}

// ObserveHash times a bcrypt hash or compare.
func (p *Prom) ObserveHash(fn func()) {
	start := time.Now()
	fn()
	p.HashDuration.Observe(time.Since(start).Seconds())
}

// TokenService mirrors the use-case port so the decorator below can wrap the
// production token service without importing the auth package.
type TokenService interface {
	Generate(userID, email string) (string, error)
	GenerateRefresh(userID, email string) (string, error)
	Verify(tokenStr string) (*token.Claims, error)
}

// InstrumentedTokenService counts issued tokens and verification outcomes.
type InstrumentedTokenService struct {
	inner TokenService
	prom  *Prom
}

func NewInstrumentedTokenService(inner TokenService, prom *Prom) *InstrumentedTokenService {
	return &InstrumentedTokenService{inner: inner, prom: prom}
}

func (s *InstrumentedTokenService) Generate(userID, email string) (string, error) {
	raw, err := s.inner.Generate(userID, email)

	if err == nil {
		s.prom.TokensIssuedTotal.WithLabelValues("access").Inc()
	}

	return raw, err
}

func (s *InstrumentedTokenService) GenerateRefresh(userID, email string) (string, error) {
	raw, err := s.inner.GenerateRefresh(userID, email)

	if err == nil {
		s.prom.TokensIssuedTotal.WithLabelValues("refresh").Inc()
	}

	return raw, err
}

func (s *InstrumentedTokenService) Verify(tokenStr string) (*token.Claims, error) {
	claims, err := s.inner.Verify(tokenStr)

	s.prom.VerificationsTotal.WithLabelValues(classifyVerifyErr(err)).Inc()

	return claims, err
}

// InstrumentedHasher times bcrypt work. Hashing dominates signup and login
// latency, so every Hash/Compare lands in the duration histogram.
type InstrumentedHasher struct {
	inner security.PasswordHasher
	prom  *Prom
}

func NewInstrumentedHasher(inner security.PasswordHasher, prom *Prom) *InstrumentedHasher {
	return &InstrumentedHasher{inner: inner, prom: prom}
}

func (h *InstrumentedHasher) Hash(plain string) (string, error) {
	var raw string

	var err error

	h.prom.ObserveHash(func() {
		raw, err = h.inner.Hash(plain)
	})

	return raw, err
}

func (h *InstrumentedHasher) Compare(plain, hash string) bool {
	var ok bool

	h.prom.ObserveHash(func() {
		ok = h.inner.Compare(plain, hash)
	})

	return ok
}

func (h *InstrumentedHasher) CompareDummy(plain string) {
	h.prom.ObserveHash(func() {
		h.inner.CompareDummy(plain)
	})
}

func classifyVerifyErr(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, token.ErrExpired):
		return "expired"
	case errors.Is(err, token.ErrMalformed):
		return "malformed"
	case errors.Is(err, token.ErrInvalidSignature):
		return "bad_signature"
	default:
		return "error"
	}
}
