package jwt

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/medibook/internal/pkg/clock"
)

type staticID string

func (s staticID) Generate() string { return string(s) }

func newTestJWT(t *testing.T, clk *clock.Frozen) *Symmetric {
	t.Helper()

	j, err := NewHS512(Config{
		Secret:    []byte(strings.Repeat("k", 64)),
		Issuer:    "medibook",
		Audiences: []string{"medibook-web"},
		TTL:       15 * time.Minute,
		Clock:     clk,
		UUID:      staticID("jti-1"),
	})
	if err != nil {
		t.Fatalf("new jwt: %v", err)
	}
	return j
}

func TestSymmetricRoundTrip(t *testing.T) {
	// Arrange
	clk := clock.NewFrozen(time.Now())
	j := newTestJWT(t, clk)

	// Act
	token, err := j.Generate(Subject{UserID: 42, Email: "jane@example.com", Role: "admin"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := j.Verify(token)

	// Assert
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != 42 || claims.UserEmail != "jane@example.com" || claims.Role != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Subject != "42" || claims.ID != "jti-1" {
		t.Fatalf("unexpected registered claims: %+v", claims.RegisteredClaims)
	}
}

func TestSymmetricExpired(t *testing.T) {
	clk := clock.NewFrozen(time.Now())
	j := newTestJWT(t, clk)

	token, err := j.Generate(Subject{UserID: 1, Email: "a@b.c", Role: "patient"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	clk.Advance(16 * time.Minute)
	if _, err := j.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestSymmetricRejectsTampering(t *testing.T) {
	clk := clock.NewFrozen(time.Now())
	j := newTestJWT(t, clk)

	other, err := NewHS512(Config{
		Secret: []byte(strings.Repeat("x", 64)), Issuer: "medibook", Audiences: []string{"medibook-web"},
		TTL: time.Minute, Clock: clk, UUID: staticID("jti-2"),
	})
	if err != nil {
		t.Fatalf("new jwt: %v", err)
	}

	forged, err := other.Generate(Subject{UserID: 1, Role: "admin"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := j.Verify(forged); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := j.Verify("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestNewHS512Validation(t *testing.T) {
	if _, err := NewHS512(Config{Secret: []byte("short"), TTL: time.Minute}); !errors.Is(err, ErrSigningKeyTooShort) {
		t.Fatalf("expected ErrSigningKeyTooShort, got %v", err)
	}
	if _, err := NewHS512(Config{Secret: []byte(strings.Repeat("k", 64))}); err == nil {
		t.Fatalf("expected error for zero ttl")
	}
}

func TestAuthContext(t *testing.T) {
	if GetAuth(context.Background()) != nil {
		t.Fatalf("expected no claims")
	}

	ctx := SetAuth(context.Background(), Claims{UserID: 7, Role: "doctor"})
	clm := GetAuth(ctx)
	if clm == nil || clm.UserID != 7 || clm.Role != "doctor" {
		t.Fatalf("unexpected claims: %+v", clm)
	}
}
