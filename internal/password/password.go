// Package password owns the one-way credential transform used by
// registration and login.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash is a valid bcrypt hash of a random string. Compare against it
// when the username is unknown so a login attempt costs the same whether
// or not the account exists.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Hasher hashes and verifies plaintext passwords with bcrypt.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given bcrypt cost. Cost 0 (or any
// value below bcrypt's minimum) falls back to bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns the bcrypt hash of plaintext. The output embeds its own
// salt and cost, so equal inputs produce distinct hashes.
func (h *Hasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Verify reports whether plaintext matches the stored hash.
func (h *Hasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// VerifyDummy burns one bcrypt comparison against a throwaway hash. It
// always returns false.
func (h *Hasher) VerifyDummy(plaintext string) bool {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(plaintext))
	return false
}
