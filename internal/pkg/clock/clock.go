// Package clock puts the current time behind an interface so business code
// can run against a frozen instant in tests.
package clock

import (
	"sync"
	"time"
)

type Clocker interface {
	Now() time.Time
}

// System reads the wall clock.
type System struct{}

func New() *System {
	return &System{}
}

func (*System) Now() time.Time {
	return time.Now()
}

// Frozen returns the same instant until it is moved with Set or Advance.
type Frozen struct {
	mu  sync.RWMutex
	now time.Time
}

func NewFrozen(t time.Time) *Frozen {
	return &Frozen{now: t}
}

func (f *Frozen) Now() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.now
}

func (f *Frozen) Set(t time.Time) {
	f.mu.Lock()
	f.now = t
	f.mu.Unlock()
}

func (f *Frozen) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}
