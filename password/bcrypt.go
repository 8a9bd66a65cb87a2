package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when Config.Cost is zero.
// Cost 12 bounds offline brute-force throughput on current hardware while
// keeping a single verification in the tens of milliseconds.
const DefaultCost = 12

// Config defines the tunable parameters of the [Hasher].
type Config struct {
	Cost int
}

// Hasher produces and verifies salted bcrypt password hashes. The cost is
// embedded in every hash it emits, so verification needs no external
// parameter store.
//
// Hasher instances are intended to be configured during initialization and
// then treated as immutable.
type Hasher struct {
	cost int
}

// NewHasher validates cfg and returns a ready Hasher.
func NewHasher(cfg Config) (*Hasher, error) {
	cost := cfg.Cost
	if cost == 0 {
		cost = DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, errors.New("bcrypt cost out of range")
	}

	return &Hasher{cost: cost}, nil
}

// Hash returns a self-describing bcrypt hash of password with a fresh
// random salt.
func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("empty password")
	}

	out, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}

	return string(out), nil
}

// Verify reports whether password matches encodedHash. The comparison runs
// in time independent of where a mismatch occurs, and malformed hash input
// yields false rather than an error.
func (h *Hasher) Verify(password, encodedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)) == nil
}

// Cost extracts the work factor embedded in encodedHash.
func Cost(encodedHash string) (int, bool) {
	cost, err := bcrypt.Cost([]byte(encodedHash))
	if err != nil {
		return 0, false
	}
	return cost, true
}
