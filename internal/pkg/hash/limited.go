package hash

import (
	"runtime"

	"go.uber.org/atomic"
)

// Limited bounds how many hash computations run at once. Password hashing is
// CPU and memory heavy; without a bound a burst of logins can starve the
// process.
type Limited struct {
	next     PasswordHasher
	sema     chan struct{}
	inFlight *atomic.Int64
}

// NewLimited wraps next with a semaphore of size maxConcurrent. A
// non-positive maxConcurrent defaults to runtime.NumCPU().
func NewLimited(next PasswordHasher, maxConcurrent int) *Limited {
	if maxConcurrent < 1 {
		maxConcurrent = runtime.NumCPU()
	}

	return &Limited{
		next:     next,
		sema:     make(chan struct{}, maxConcurrent),
		inFlight: atomic.NewInt64(0),
	}
}

func (l *Limited) acquire() func() {
	l.sema <- struct{}{}
	l.inFlight.Inc()
	return func() {
		l.inFlight.Dec()
		<-l.sema
	}
}

// InFlight returns the number of computations currently holding a slot.
func (l *Limited) InFlight() int64 {
	return l.inFlight.Load()
}

func (l *Limited) Algorithm() Algorithm {
	return l.next.Algorithm()
}

func (l *Limited) Hash(plaintext string) ([]byte, error) {
	defer l.acquire()()
	return l.next.Hash(plaintext)
}

func (l *Limited) Verify(hashed, plaintext string) bool {
	defer l.acquire()()
	return l.next.Verify(hashed, plaintext)
}

func (l *Limited) Check(hashed, plaintext string) (bool, error) {
	defer l.acquire()()
	return l.next.Check(hashed, plaintext)
}

// NeedsRehash and Inspect only parse, so they skip the semaphore.
func (l *Limited) NeedsRehash(hashed string) bool {
	return l.next.NeedsRehash(hashed)
}

func (l *Limited) Inspect(hashed string) (Info, error) {
	return l.next.Inspect(hashed)
}
