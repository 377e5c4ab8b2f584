package hash

import "fmt"

// Multi hashes with a primary hasher and verifies with whichever registered
// hasher matches the stored hash's algorithm. Switching the configured
// algorithm therefore keeps existing credentials valid; NeedsRehash reports
// them so they are upgraded on the next successful login.
type Multi struct {
	primary PasswordHasher
	byAlg   map[Algorithm]PasswordHasher
}

// NewMulti returns a Multi. legacy hashers with the same algorithm as primary
// are ignored.
func NewMulti(primary PasswordHasher, legacy ...PasswordHasher) *Multi {
	m := &Multi{
		primary: primary,
		byAlg:   map[Algorithm]PasswordHasher{primary.Algorithm(): primary},
	}

	for _, h := range legacy {
		if _, ok := m.byAlg[h.Algorithm()]; !ok {
			m.byAlg[h.Algorithm()] = h
		}
	}

	return m
}

func (m *Multi) Algorithm() Algorithm {
	return m.primary.Algorithm()
}

func (m *Multi) Hash(plaintext string) ([]byte, error) {
	return m.primary.Hash(plaintext)
}

func (m *Multi) Verify(hashed, plaintext string) bool {
	ok, _ := m.Check(hashed, plaintext)
	return ok
}

func (m *Multi) Check(hashed, plaintext string) (bool, error) {
	h, err := m.pick(hashed)
	if err != nil {
		return false, err
	}
	return h.Check(hashed, plaintext)
}

func (m *Multi) NeedsRehash(hashed string) bool {
	if Detect(hashed) != m.primary.Algorithm() {
		return true
	}
	return m.primary.NeedsRehash(hashed)
}

func (m *Multi) Inspect(hashed string) (Info, error) {
	h, err := m.pick(hashed)
	if err != nil {
		return Info{}, err
	}
	return h.Inspect(hashed)
}

func (m *Multi) pick(hashed string) (PasswordHasher, error) {
	alg := Detect(hashed)
	h, ok := m.byAlg[alg]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported algorithm %q", ErrMalformedHash, alg)
	}
	return h, nil
}
