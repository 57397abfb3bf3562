package hikeusers

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is bcrypt's input limit; longer plaintexts are
// silently truncated by some implementations and rejected by ours.
const maxPasswordBytes = 72

// PasswordHasher hashes and verifies passwords using bcrypt. The work
// factor is fixed at construction so every hash produced by one
// instance carries the same cost.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher builds a hasher with the given bcrypt cost. Costs
// outside the range bcrypt supports fall back to the package default.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = passwordHashCost()
	}
	return &PasswordHasher{cost: cost}
}

// Hash will generate a password hash
func (p *PasswordHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	if len(password) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", err
	}
	return string(h), nil
}

// Compare will validate the given cleartext password matches the
// hashed password. Any failure, including a malformed stored hash,
// reports as a mismatch so callers can't distinguish the cases.
func (p *PasswordHasher) Compare(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrMismatchedHashAndPassword
	}
	return nil
}

// HashPassword will generate a password hash using the default cost
func HashPassword(password string) (string, error) {
	return NewPasswordHasher(passwordHashCost()).Hash(password)
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func ComparePasswordAndHash(password, hash string) error {
	return NewPasswordHasher(passwordHashCost()).Compare(password, hash)
}
