package uid

import (
	"crypto/rand"
	"encoding/base64"
)

// Token generates URL-safe random secrets such as refresh tokens.
type Token struct {
	size int
}

// NewToken returns a generator of size random bytes; sizes below 32 are
// raised to 32.
func NewToken(size int) *Token {
	return &Token{size: max(size, 32)}
}

// Generate returns a base64url (unpadded) encoding of fresh random bytes.
func (t *Token) Generate() string {
	buf := make([]byte, t.size)
	// crypto/rand.Read never returns an error on supported platforms.
	_, _ = rand.Read(buf)
	return base64.RawURLEncoding.EncodeToString(buf)
}
