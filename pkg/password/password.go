package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrEmptyPassword is returned by Hash for an empty input.
	ErrEmptyPassword = errors.New("password: empty password")

	// ErrPasswordTooLong is returned by Hash when the input exceeds the
	// 72-byte bcrypt limit.
	ErrPasswordTooLong = errors.New("password: password exceeds 72 bytes")

	// ErrInvalidCost is returned by Hash for a cost outside the bcrypt range.
	ErrInvalidCost = errors.New("password: cost out of range")
)

// maxPasswordLen is the bcrypt input limit in bytes.
const maxPasswordLen = 72

type config struct {
	cost int
}

// Option configures hashing.
type Option func(*config)

// WithCost sets the bcrypt cost factor. The valid range is bcrypt.MinCost
// (4) through bcrypt.MaxCost (31); the default is bcrypt.DefaultCost (10).
func WithCost(cost int) Option {
	return func(cfg *config) {
		cfg.cost = cost
	}
}

// Hash returns the bcrypt hash of plain. Each call produces a different
// hash for the same input because bcrypt embeds a random salt.
func Hash(plain string, opts ...Option) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}
	if len(plain) > maxPasswordLen {
		return "", ErrPasswordTooLong
	}

	cfg := &config{cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.cost < bcrypt.MinCost || cfg.cost > bcrypt.MaxCost {
		return "", ErrInvalidCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cfg.cost)
	if err != nil {
		return "", fmt.Errorf("password: hash: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plain matches the bcrypt hash.
// Malformed hashes never match.
func Verify(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// NeedsRehash reports whether hash was produced with a cost different from
// the configured one, typically checked after a successful login so the
// stored hash can be upgraded. Malformed hashes always need a rehash.
func NeedsRehash(hash string, opts ...Option) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return true
	}

	cfg := &config{cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(cfg)
	}
	return cost != cfg.cost
}
