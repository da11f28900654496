// Package credential turns passwords into bcrypt hashes, issues and verifies
// signed session tokens, and holds the field policies for account data.
package credential

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor used for stored passwords.
const PasswordCost = 12

// PasswordHasher hashes and verifies passwords with bcrypt.
type PasswordHasher struct {
	cost int

	placeholderOnce sync.Once
	placeholder     []byte
}

// NewPasswordHasher returns a hasher using cost, or PasswordCost when cost is
// outside bcrypt's accepted range.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = PasswordCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns a salted bcrypt hash of password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether password matches hash. Malformed hashes never match.
func (h *PasswordHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// VerifyMissing runs one compare at the hasher's cost against a placeholder
// hash and always reports false. Login calls it when no account matches the
// email, so both failure paths cost the same bcrypt work.
func (h *PasswordHasher) VerifyMissing(password string) bool {
	h.placeholderOnce.Do(func() {
		h.placeholder, _ = bcrypt.GenerateFromPassword([]byte("placeholder-Passw0rd!"), h.cost)
	})
	_ = bcrypt.CompareHashAndPassword(h.placeholder, []byte(password))
	return false
}
