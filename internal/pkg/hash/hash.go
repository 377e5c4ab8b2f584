package hash

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidInput is returned when a plaintext cannot be hashed: it is empty
	// or longer than the algorithm accepts.
	ErrInvalidInput = errors.New("hash: invalid input")

	// ErrInvalidConfig is returned by constructors for unsupported parameters.
	ErrInvalidConfig = errors.New("hash: invalid config")

	// ErrMalformedHash is returned by Check and Inspect when a stored value is
	// not a hash this package can parse.
	ErrMalformedHash = errors.New("hash: malformed hash")
)

// Hash is the minimal contract shared by every hasher in this package.
type Hash interface {
	Hash(plaintext string) ([]byte, error)
	Verify(hashed, plaintext string) bool
}

// PasswordHasher is a salted, self-describing password hash.
//
// Verify never errors: a wrong password, an empty plaintext and an unparseable
// hash all yield false. Check reports the unparseable case as ErrMalformedHash
// so callers can tell a corrupted record apart from a wrong password.
type PasswordHasher interface {
	Hash
	Check(hashed, plaintext string) (bool, error)
	NeedsRehash(hashed string) bool
	Inspect(hashed string) (Info, error)
	Algorithm() Algorithm
}

// Algorithm names the scheme encoded in a stored hash.
type Algorithm string

const (
	AlgorithmUnknown  Algorithm = "unknown"
	AlgorithmBcrypt   Algorithm = "bcrypt"
	AlgorithmArgon2id Algorithm = "argon2id"
)

func (a Algorithm) String() string {
	return string(a)
}

// Info describes the parameters of a stored hash. It never carries secrets.
type Info struct {
	Algorithm Algorithm
	Version   string

	// Cost is the bcrypt work factor (log2 rounds).
	Cost int

	// Argon2id parameters.
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
}

// Detect returns the algorithm named by the prefix of hashed, without
// validating the rest of the value.
func Detect(hashed string) Algorithm {
	switch {
	case strings.HasPrefix(hashed, "$argon2id$"):
		return AlgorithmArgon2id
	case strings.HasPrefix(hashed, "$2a$"),
		strings.HasPrefix(hashed, "$2b$"),
		strings.HasPrefix(hashed, "$2y$"),
		strings.HasPrefix(hashed, "$2$"):
		return AlgorithmBcrypt
	default:
		return AlgorithmUnknown
	}
}
