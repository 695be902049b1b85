// internal/password/password.go
//
// Bcrypt credential hashing.
//
// Context
// -------
// Hash rejects empty plaintext outright; an empty password must never gain a
// valid digest.  Verify is deliberately safe-false: malformed input (empty
// plaintext or empty digest) and mismatches all return false without an
// error, so the comparison path has exactly one observable outcome shape and
// offers no error-based side channel.
//
// Bcrypt is CPU-bound.  Callers on hot paths should treat Hash and Verify as
// blocking work, not something to run inside a lock.

package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrEmptyPassword is returned by Hash for empty plaintext.
var ErrEmptyPassword = errors.New("password: plaintext must not be empty")

// Hasher wraps bcrypt with a configured cost.
type Hasher struct {
	cost int
}

// New returns a Hasher.  Cost outside bcrypt's valid range falls back to
// bcrypt.DefaultCost.
func New(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns the bcrypt digest of plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest.  Never returns an error:
// empty input and malformed digests are simply false.
func (h *Hasher) Verify(plaintext, digest string) bool {
	if plaintext == "" || digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
