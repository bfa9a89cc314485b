package security

import "golang.org/x/crypto/bcrypt"

const (
	// bcrypt work factor bounds; verification latency stays bounded
	// as hardware improves by tuning within this range.
	MinCost     = 10
	MaxCost     = 12
	DefaultCost = 10
)

// PasswordHasher is the contract Hasher fulfills. The observability package
// wraps it to time bcrypt work.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(plain, hash string) bool
	CompareDummy(plain string)
}

// Hasher hashes and verifies passwords with bcrypt. The produced hash is
// self-describing (salt and cost are embedded), so Compare needs no
// configuration beyond the hash itself.
type Hasher struct {
	cost int
}

func NewHasher(cost int) *Hasher {
	if cost < MinCost {
		cost = MinCost
	}

	if cost > MaxCost {
		cost = MaxCost
	}

	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// Compare reports whether plain matches hash. A malformed hash is treated
// as a mismatch, never an error.
func (h *Hasher) Compare(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// dummyHash is a bcrypt hash of a throwaway value. Comparing against it keeps
// the unknown-email branch of login as expensive as a real password check.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// CompareDummy burns one bcrypt verification without revealing anything.
func (h *Hasher) CompareDummy(plain string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(plain))
}
