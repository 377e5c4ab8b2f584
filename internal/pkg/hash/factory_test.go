package hash

import (
	"errors"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestNewPasswordAlgorithms(t *testing.T) {
	bcryptHasher, err := NewPassword(Config{Algorithm: "bcrypt", BcryptCost: bcrypt.MinCost})
	if err != nil {
		t.Fatalf("new bcrypt password hasher: %v", err)
	}
	argonHasher, err := NewPassword(Config{Algorithm: "argon2id", BcryptCost: bcrypt.MinCost, Argon2: testArgon2Params()})
	if err != nil {
		t.Fatalf("new argon2id password hasher: %v", err)
	}

	bcryptHash, err := bcryptHasher.Hash("password1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	argonHash, err := argonHasher.Hash("password1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if Detect(string(bcryptHash)) != AlgorithmBcrypt {
		t.Fatalf("expected bcrypt hash, got %s", bcryptHash)
	}
	if Detect(string(argonHash)) != AlgorithmArgon2id {
		t.Fatalf("expected argon2id hash, got %s", argonHash)
	}

	// Each hasher verifies the other algorithm and asks for an upgrade.
	if !argonHasher.Verify(string(bcryptHash), "password1") || !argonHasher.NeedsRehash(string(bcryptHash)) {
		t.Fatalf("expected argon2id hasher to accept and upgrade bcrypt hashes")
	}
	if !bcryptHasher.Verify(string(argonHash), "password1") || !bcryptHasher.NeedsRehash(string(argonHash)) {
		t.Fatalf("expected bcrypt hasher to accept and upgrade argon2id hashes")
	}
	if bcryptHasher.NeedsRehash(string(bcryptHash)) {
		t.Fatalf("expected current hash not to need rehash")
	}

	if _, err := bcryptHasher.Check("$unknown$", "password1"); !errors.Is(err, ErrMalformedHash) {
		t.Fatalf("expected ErrMalformedHash, got %v", err)
	}
}

func TestNewPasswordInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "unknown algorithm", cfg: Config{Algorithm: "md5", BcryptCost: bcrypt.DefaultCost}},
		{name: "bcrypt cost", cfg: Config{Algorithm: "bcrypt", BcryptCost: 2}},
		{name: "argon2 params", cfg: Config{Algorithm: "argon2id", BcryptCost: bcrypt.DefaultCost, Argon2: Argon2Params{Memory: 64}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPassword(tt.cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

type slowHasher struct {
	*Bcrypt
	mu      sync.Mutex
	current int
	peak    int
}

func (s *slowHasher) Verify(hashed, plaintext string) bool {
	s.mu.Lock()
	s.current++
	s.peak = max(s.peak, s.current)
	s.mu.Unlock()

	time.Sleep(10 * time.Millisecond)

	s.mu.Lock()
	s.current--
	s.mu.Unlock()

	return s.Bcrypt.Verify(hashed, plaintext)
}

func TestLimitedBoundsConcurrency(t *testing.T) {
	// Arrange
	inner := &slowHasher{Bcrypt: newTestBcrypt(t, bcrypt.MinCost, "")}
	limited := NewLimited(inner, 2)
	hashed, err := limited.Hash("password1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	// Act
	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			limited.Verify(string(hashed), "password1")
		})
	}
	wg.Wait()

	// Assert
	if inner.peak > 2 {
		t.Fatalf("expected at most 2 concurrent verifications, saw %d", inner.peak)
	}
	if limited.InFlight() != 0 {
		t.Fatalf("expected no in-flight work, got %d", limited.InFlight())
	}
}
