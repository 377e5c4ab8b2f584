package hash

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2idMaxInput bounds the plaintext (plus pepper) accepted by Argon2id.
const Argon2idMaxInput = 1024

// Argon2Params are the Argon2id tuning knobs. Memory is in KiB.
type Argon2Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2Params returns the recommended defaults.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Memory:      32 * 1024, // e.g. 32MB, 64MB, 128MB
		Iterations:  3,         // time cost
		Parallelism: 2,         // threads
		SaltLength:  16,
		KeyLength:   32,
	}
}

func (p Argon2Params) validate() error {
	switch {
	case p.Memory < 8*uint32(p.Parallelism):
		return fmt.Errorf("%w: argon2id memory must be at least 8*parallelism KiB", ErrInvalidConfig)
	case p.Iterations < 1:
		return fmt.Errorf("%w: argon2id iterations must be positive", ErrInvalidConfig)
	case p.Parallelism < 1:
		return fmt.Errorf("%w: argon2id parallelism must be positive", ErrInvalidConfig)
	case p.SaltLength < 8:
		return fmt.Errorf("%w: argon2id salt must be at least 8 bytes", ErrInvalidConfig)
	case p.KeyLength < 16:
		return fmt.Errorf("%w: argon2id key must be at least 16 bytes", ErrInvalidConfig)
	}
	return nil
}

// Argon2id implements PasswordHasher using Argon2id.
type Argon2id struct {
	params Argon2Params
	pepper string
}

// NewArgon2id returns an Argon2id hasher.
func NewArgon2id(params Argon2Params, pepper string) (*Argon2id, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	return &Argon2id{params: params, pepper: pepper}, nil
}

// Algorithm returns AlgorithmArgon2id.
func (*Argon2id) Algorithm() Algorithm {
	return AlgorithmArgon2id
}

// Hash takes a plaintext string and returns its encoded hash:
// $argon2id$v=19$m=<memory>,t=<iterations>,p=<parallelism>$<salt>$<key>.
func (a *Argon2id) Hash(plaintext string) ([]byte, error) {
	if plaintext == "" {
		return nil, fmt.Errorf("%w: empty plaintext", ErrInvalidInput)
	}

	if len(plaintext)+len(a.pepper) > Argon2idMaxInput {
		return nil, fmt.Errorf("%w: plaintext exceeds %d bytes", ErrInvalidInput, Argon2idMaxInput-len(a.pepper))
	}

	salt := make([]byte, a.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(plaintext+a.pepper), salt, a.params.Iterations, a.params.Memory, a.params.Parallelism, a.params.KeyLength)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		a.params.Memory,
		a.params.Iterations,
		a.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)

	return []byte(encoded), nil
}

// Verify checks if the given plaintext string matches the hashed value.
func (a *Argon2id) Verify(hashed, plaintext string) bool {
	ok, _ := a.Check(hashed, plaintext)
	return ok
}

// Check recomputes the key with the parameters and salt stored in hashed and
// compares in constant time.
func (a *Argon2id) Check(hashed, plaintext string) (bool, error) {
	decoded, err := decodeArgon2id(hashed)
	if err != nil {
		return false, err
	}

	if plaintext == "" || len(plaintext)+len(a.pepper) > Argon2idMaxInput {
		return false, nil
	}

	computed := argon2.IDKey(
		[]byte(plaintext+a.pepper),
		decoded.salt,
		decoded.info.Iterations,
		decoded.info.Memory,
		decoded.info.Parallelism,
		uint32(len(decoded.key)),
	)

	return subtle.ConstantTimeCompare(decoded.key, computed) == 1, nil
}

// NeedsRehash is true for non-argon2id hashes and for hashes weaker than the
// configured parameters.
func (a *Argon2id) NeedsRehash(hashed string) bool {
	decoded, err := decodeArgon2id(hashed)
	if err != nil {
		return true
	}

	info := decoded.info
	return info.Memory < a.params.Memory ||
		info.Iterations < a.params.Iterations ||
		info.Parallelism < a.params.Parallelism ||
		uint32(len(decoded.key)) < a.params.KeyLength
}

// Inspect parses the parameters out of an argon2id hash.
func (*Argon2id) Inspect(hashed string) (Info, error) {
	decoded, err := decodeArgon2id(hashed)
	if err != nil {
		return Info{}, err
	}
	return decoded.info, nil
}

type argon2idHash struct {
	info Info
	salt []byte
	key  []byte
}

func decodeArgon2id(hashed string) (argon2idHash, error) {
	parts := strings.Split(hashed, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return argon2idHash{}, fmt.Errorf("%w: not an argon2id hash", ErrMalformedHash)
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return argon2idHash{}, fmt.Errorf("%w: version: %v", ErrMalformedHash, err)
	}
	if version != argon2.Version {
		return argon2idHash{}, fmt.Errorf("%w: unsupported argon2 version %d", ErrMalformedHash, version)
	}

	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return argon2idHash{}, fmt.Errorf("%w: parameters: %v", ErrMalformedHash, err)
	}
	if iterations == 0 || parallelism == 0 {
		return argon2idHash{}, fmt.Errorf("%w: zero parameters", ErrMalformedHash)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return argon2idHash{}, fmt.Errorf("%w: salt: %v", ErrMalformedHash, err)
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return argon2idHash{}, fmt.Errorf("%w: key: %v", ErrMalformedHash, err)
	}

	return argon2idHash{
		info: Info{
			Algorithm:   AlgorithmArgon2id,
			Version:     fmt.Sprintf("%d", version),
			Memory:      memory,
			Iterations:  iterations,
			Parallelism: parallelism,
		},
		salt: salt,
		key:  key,
	}, nil
}
