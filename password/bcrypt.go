package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const maxPasswordBytes = 72 // bcrypt input limit

// Hasher hashes and verifies passwords with bcrypt. The zero cost selects
// bcrypt.DefaultCost.
type Hasher struct {
	cost int
}

// NewHasher validates cost and returns a Hasher.
func NewHasher(cost int) (*Hasher, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, errors.New("password: invalid bcrypt cost")
	}
	return &Hasher{cost: cost}, nil
}

// Hash returns the salted bcrypt hash of plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", errors.New("password: empty password")
	}
	if len(plaintext) > maxPasswordBytes {
		return "", errors.New("password: password too long")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches storedHash. The comparison is
// constant-time inside bcrypt. Any error (mismatch, malformed hash, wrong
// prefix) yields false with no detail.
func (h *Hasher) Verify(plaintext, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plaintext)) == nil
}
