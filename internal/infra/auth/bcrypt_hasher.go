// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"blogauth/config"
	"blogauth/internal/domain/constants"
	"blogauth/internal/domain/service"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used when configuration does not set a
// usable one. It is also the floor outside the test environment.
const DefaultBcryptCost = 12

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a PasswordHasher using auth.bcryptCost. Costs below
// DefaultBcryptCost are raised to it unless env is test.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := cfg.Auth.BcryptCost
	if cost < DefaultBcryptCost && cfg.Env.Env != constants.EnvTest {
		cost = DefaultBcryptCost
	}

	return newBcryptHasher(cost)
}

func newBcryptHasher(cost int) *bcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}

	return &bcryptHasher{cost: cost}
}

// Hash generates a salted hash. bcrypt handles salt generation itself.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}

	return string(bytes), nil
}

// Check compares a plaintext password with a bcrypt hash in constant time.
func (h *bcryptHasher) Check(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
