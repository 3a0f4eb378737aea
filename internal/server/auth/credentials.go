package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// CredentialHasher hashes and verifies passwords with bcrypt. The produced
// hash string is self-describing (it embeds salt and cost), so verification
// needs nothing besides the stored hash.
type CredentialHasher struct {
	cost int
}

// NewCredentialHasher returns a hasher with the given bcrypt cost.
// Costs outside bcrypt's supported range fall back to the default.
func NewCredentialHasher(cost int) *CredentialHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &CredentialHasher{cost: cost}
}

// Hash derives a salted one-way hash from plaintext. Failures of the
// hashing primitive are surfaced to the caller, never swallowed.
func (h *CredentialHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches the stored hash. A malformed
// hash is not an error, just a mismatch.
func (h *CredentialHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
