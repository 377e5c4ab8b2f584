package hash

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// BcryptMaxInput is the number of bytes bcrypt consumes. Longer inputs are
// rejected instead of being truncated.
const BcryptMaxInput = 72

// Bcrypt implements PasswordHasher using bcrypt.
//
// Pepper is appended to the plaintext before hashing/verifying and counts
// toward BcryptMaxInput. Keep the pepper secret and store it in configuration
// (not in the database).
type Bcrypt struct {
	cost   int
	pepper string
}

// NewBcrypt returns a bcrypt-based hasher.
//
// cost must be within [bcrypt.MinCost, bcrypt.MaxCost]; anything else returns
// ErrInvalidConfig.
func NewBcrypt(cost int, pepper string) (*Bcrypt, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: bcrypt cost %d outside [%d, %d]", ErrInvalidConfig, cost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	if len(pepper) >= BcryptMaxInput {
		return nil, fmt.Errorf("%w: bcrypt pepper must be shorter than %d bytes", ErrInvalidConfig, BcryptMaxInput)
	}

	return &Bcrypt{cost: cost, pepper: pepper}, nil
}

// Algorithm returns AlgorithmBcrypt.
func (*Bcrypt) Algorithm() Algorithm {
	return AlgorithmBcrypt
}

// Cost returns the configured work factor.
func (h *Bcrypt) Cost() int {
	return h.cost
}

// Hash hashes plaintext with a fresh random salt. The result is the 60 byte
// modular crypt string ($2a$<cost>$<salt><hash>).
func (h *Bcrypt) Hash(plaintext string) ([]byte, error) {
	if plaintext == "" {
		return nil, fmt.Errorf("%w: empty plaintext", ErrInvalidInput)
	}

	if len(plaintext)+len(h.pepper) > BcryptMaxInput {
		return nil, fmt.Errorf("%w: plaintext exceeds %d bytes", ErrInvalidInput, BcryptMaxInput-len(h.pepper))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext+h.pepper), h.cost)
	if err != nil {
		return nil, fmt.Errorf("bcrypt: %w", err)
	}

	return hashed, nil
}

// Verify returns true when plaintext matches the hashed value.
func (h *Bcrypt) Verify(hashed, plaintext string) bool {
	ok, _ := h.Check(hashed, plaintext)
	return ok
}

// Check compares plaintext against hashed using the cost and salt stored in
// hashed. A mismatch is (false, nil); an unparseable hash is ErrMalformedHash.
func (h *Bcrypt) Check(hashed, plaintext string) (bool, error) {
	if _, err := h.Inspect(hashed); err != nil {
		return false, err
	}

	// Nothing we produced can match these.
	if plaintext == "" || len(plaintext)+len(h.pepper) > BcryptMaxInput {
		return false, nil
	}

	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext+h.pepper))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
}

// NeedsRehash reports whether hashed should be replaced by a fresh Hash: it
// is not a bcrypt hash or it was produced with a lower cost than configured.
func (h *Bcrypt) NeedsRehash(hashed string) bool {
	info, err := h.Inspect(hashed)
	if err != nil {
		return true
	}

	return info.Cost < h.cost
}

// Inspect parses the version and cost out of a bcrypt hash.
func (*Bcrypt) Inspect(hashed string) (Info, error) {
	if Detect(hashed) != AlgorithmBcrypt {
		return Info{}, fmt.Errorf("%w: not a bcrypt hash", ErrMalformedHash)
	}

	cost, err := bcrypt.Cost([]byte(hashed))
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}

	version, _, _ := strings.Cut(strings.TrimPrefix(hashed, "$"), "$")

	return Info{Algorithm: AlgorithmBcrypt, Version: version, Cost: cost}, nil
}
