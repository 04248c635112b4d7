package hash

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrBcryptCostOutOfRange is returned when the configured cost is outside bcrypt limits.
var ErrBcryptCostOutOfRange = errors.New("hash: bcrypt cost out of range")

// Bcrypt implements Hash using bcrypt.
//
// The encoded output embeds the algorithm version, cost and salt, so Verify
// needs nothing but the stored string.
type Bcrypt struct {
	cost int
}

// NewBcrypt returns a bcrypt-based hasher.
//
// A zero cost selects bcrypt.DefaultCost.
func NewBcrypt(cost int) (*Bcrypt, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, ErrBcryptCostOutOfRange
	}

	return &Bcrypt{cost: cost}, nil
}

// Hash hashes plaintext using bcrypt.
func (h *Bcrypt) Hash(plaintext string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
}

// Verify returns true when plaintext matches the hashed value.
func (h *Bcrypt) Verify(hashed, plaintext string) bool {
	if hashed == "" {
		return false
	}

	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}
