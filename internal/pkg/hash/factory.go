package hash

import (
	"fmt"
	"strings"
)

// Config selects and tunes the password hasher.
type Config struct {
	Algorithm     string
	Pepper        string
	BcryptCost    int
	Argon2        Argon2Params
	MaxConcurrent int
}

// NewPassword builds the PasswordHasher described by cfg. The configured
// algorithm hashes new credentials; hashes of the other supported algorithm
// still verify and report NeedsRehash.
func NewPassword(cfg Config) (PasswordHasher, error) {
	if cfg.Argon2 == (Argon2Params{}) {
		cfg.Argon2 = DefaultArgon2Params()
	}

	bc, err := NewBcrypt(cfg.BcryptCost, cfg.Pepper)
	if err != nil {
		return nil, err
	}

	a2, err := NewArgon2id(cfg.Argon2, cfg.Pepper)
	if err != nil {
		return nil, err
	}

	var primary PasswordHasher
	switch Algorithm(strings.ToLower(strings.TrimSpace(cfg.Algorithm))) {
	case "", AlgorithmBcrypt:
		primary = NewMulti(bc, a2)
	case AlgorithmArgon2id:
		primary = NewMulti(a2, bc)
	default:
		return nil, fmt.Errorf("%w: unknown algorithm %q", ErrInvalidConfig, cfg.Algorithm)
	}

	return NewLimited(primary, cfg.MaxConcurrent), nil
}
