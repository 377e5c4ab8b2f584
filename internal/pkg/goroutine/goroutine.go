// Package goroutine runs background work (credential rehashing, event
// publishing) with a concurrency cap, panic recovery and a drain on shutdown.
package goroutine

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/shandysiswandi/medibook/internal/pkg/stacktrace"
)

// DefaultMaxGoroutine is multiplied by NumCPU when NewManager receives a
// non-positive limit.
const DefaultMaxGoroutine int = 100

// ErrPanic is joined into Wait's result for every recovered panic.
var ErrPanic = errors.New("goroutine: panic recovered")

// Manager runs functions in goroutines with a configurable concurrency limit.
//
// Go never blocks: when the limit is reached or the manager is closed the task
// is dropped with a warning. Wait closes the manager and returns the joined
// task errors.
type Manager struct {
	mu     sync.Mutex
	errs   []error
	wg     sync.WaitGroup
	sema   chan struct{}
	closed bool
}

// NewManager creates a new Manager with the provided maximum concurrency.
func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = runtime.NumCPU() * DefaultMaxGoroutine
	}

	return &Manager{sema: make(chan struct{}, maxGoroutine)}
}

// Go schedules f and reports whether it was accepted. f receives a context
// detached from ctx's cancellation but carrying its values, so request-scoped
// work outlives the request that started it.
func (g *Manager) Go(ctx context.Context, f func(ctx context.Context) error) bool {
	if g == nil {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		slog.WarnContext(ctx, "goroutine manager is closed, skipping new goroutine")
		return false
	}

	select {
	case g.sema <- struct{}{}:
	default:
		slog.WarnContext(ctx, "maximum goroutine limit reached, skipping new goroutine", "limit", cap(g.sema))
		return false
	}

	bg := context.WithoutCancel(ctx)
	g.wg.Go(func() {
		defer func() { <-g.sema }()
		if err := g.run(bg, f); err != nil {
			g.mu.Lock()
			g.errs = append(g.errs, err)
			g.mu.Unlock()
		}
	})

	return true
}

func (g *Manager) run(ctx context.Context, f func(ctx context.Context) error) (err error) {
	defer func() {
		rvr := recover()
		if rvr == nil {
			return
		}

		stack := debug.Stack()
		if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
			slog.ErrorContext(ctx, "panic occurred in goroutine", "because", rvr, "stack", paths)
		} else {
			slog.ErrorContext(ctx, "panic occurred in goroutine", "because", rvr, "stack", string(stack))
		}
		err = ErrPanic
	}()

	return f(ctx)
}

// Wait stops accepting work, blocks until running goroutines finish and
// returns any collected errors.
func (g *Manager) Wait() error {
	if g == nil {
		return nil
	}

	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()

	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()
	return errors.Join(g.errs...)
}
