package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the work factor applied to stored password hashes.
const bcryptCost = 12

// PasswordHasher hashes account passwords for storage and checks candidates
// against a stored hash.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher at the standard work factor.
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: bcryptCost}
}

// Hash returns the bcrypt hash to persist for a password. Input longer than
// 72 bytes is rejected by bcrypt itself; the service validates length first.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether the candidate password matches the stored hash.
func (h *PasswordHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
