package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// HMACSHA256 implements Hash with a keyed, deterministic HMAC-SHA256 digest.
// Use it for high-entropy tokens that must be looked up by their digest, never
// for passwords.
type HMACSHA256 struct {
	secret []byte
}

// NewHMACSHA256 creates a new hasher with a secret.
func NewHMACSHA256(secret string) (*HMACSHA256, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("%w: hmac secret must be at least 32 bytes", ErrInvalidConfig)
	}
	return &HMACSHA256{secret: []byte(secret)}, nil
}

// Hash returns the hex-encoded digest of the input string.
func (s *HMACSHA256) Hash(str string) ([]byte, error) {
	if str == "" {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidInput)
	}
	return s.gen(str), nil
}

// Verify checks whether the plaintext string matches the given hash.
func (s *HMACSHA256) Verify(hashed, str string) bool {
	if hashed == "" || str == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(hashed), s.gen(str)) == 1
}

func (s *HMACSHA256) gen(str string) []byte {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(str))
	sum := h.Sum(nil)
	result := make([]byte, hex.EncodedLen(len(sum)))
	hex.Encode(result, sum)
	return result
}
