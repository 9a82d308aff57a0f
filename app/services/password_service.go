// Package services provides external service integrations and technical concerns like password hashing and tokens
package services

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Password service error constants
var (
	ErrPasswordTooLong = errors.New("password exceeds maximum length")
	ErrHashFailed      = errors.New("password hashing failed")
)

// dummyHash is a bcrypt hash of a throwaway value. Verification against it
// keeps the work factor constant when the account does not exist, so login
// timing does not reveal whether an email is registered.
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// PasswordService hashes and verifies user passwords
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
	DummyCompare()
}

// PasswordServiceImpl implements PasswordService using bcrypt
type PasswordServiceImpl struct {
	cost int
}

// NewPasswordService creates a new password service with the given bcrypt cost
func NewPasswordService(cost int) PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordServiceImpl{cost: cost}
}

// Hash derives a bcrypt hash from the plaintext password. It fails closed:
// any bcrypt error surfaces instead of falling back to a weaker scheme.
func (s *PasswordServiceImpl) Hash(password string) (string, error) {
	if len(password) > 72 { // bcrypt input limit
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHashFailed, err)
	}

	return string(hash), nil
}

// Verify reports whether the plaintext password matches the stored hash.
// Malformed hashes and mismatches are both reported as false.
func (s *PasswordServiceImpl) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// DummyCompare burns one bcrypt comparison against a fixed hash. Called on
// the unknown-account login path so it costs the same as a real check.
func (s *PasswordServiceImpl) DummyCompare() {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte("linkgrove-dummy-password"))
}
