package uid

import (
	"encoding/base64"
	"testing"

	"github.com/google/uuid"
)

func TestSnowflakeMonotonic(t *testing.T) {
	gen, err := NewSnowflake(1)
	if err != nil {
		t.Fatalf("new snowflake: %v", err)
	}

	prev := gen.Generate()
	for range 1000 {
		next := gen.Generate()
		if next <= prev {
			t.Fatalf("expected increasing ids, got %d after %d", next, prev)
		}
		prev = next
	}

	if _, err := NewSnowflake(4096); err == nil {
		t.Fatalf("expected error for out of range node")
	}
}

func TestUUID(t *testing.T) {
	id := NewUUID().Generate()

	parsed, err := uuid.Parse(id)
	if err != nil {
		t.Fatalf("parse uuid %q: %v", id, err)
	}
	if parsed.Version() != 7 {
		t.Fatalf("expected v7, got %d", parsed.Version())
	}
}

func TestToken(t *testing.T) {
	gen := NewToken(8)
	seen := make(map[string]struct{})

	for range 100 {
		tok := gen.Generate()
		raw, err := base64.RawURLEncoding.DecodeString(tok)
		if err != nil {
			t.Fatalf("decode token: %v", err)
		}
		if len(raw) != 32 {
			t.Fatalf("expected 32 random bytes, got %d", len(raw))
		}
		if _, dup := seen[tok]; dup {
			t.Fatalf("duplicate token %q", tok)
		}
		seen[tok] = struct{}{}
	}
}
