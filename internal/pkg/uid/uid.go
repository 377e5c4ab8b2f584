// Package uid generates identifiers: snowflake numbers for rows, UUIDs for
// correlation and token IDs, and random opaque tokens for secrets.
package uid

import "github.com/google/uuid"

// StringID generates string identifiers.
type StringID interface {
	Generate() string
}

// NumberID generates 64-bit numeric identifiers.
type NumberID interface {
	Generate() int64
}

// UUID yields time-ordered UUIDv7 strings.
type UUID struct{}

func NewUUID() *UUID {
	return &UUID{}
}

func (*UUID) Generate() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
