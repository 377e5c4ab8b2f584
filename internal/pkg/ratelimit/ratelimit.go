// Package ratelimit counts attempts per key in fixed windows stored in Redis.
//
// It is used to throttle credential checks: each failed login increments the
// counter for the account, and a successful one resets it.
package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrInvalidLimit is returned by New for a non-positive limit or window.
var ErrInvalidLimit = errors.New("ratelimit: limit and window must be positive")

// Limiter tracks attempts per key.
type Limiter interface {
	// Allow reports whether another attempt for key is permitted, without
	// consuming one.
	Allow(ctx context.Context, key string) (Result, error)
	// Hit records an attempt for key and returns the updated state.
	Hit(ctx context.Context, key string) (Result, error)
	// Reset clears the attempts for key.
	Reset(ctx context.Context, key string) error
}

// Result is the state of a key after a call.
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// FixedWindow is a Redis-backed Limiter. The first attempt in a window sets
// the key's expiry; the window ends when the key expires.
type FixedWindow struct {
	client redis.UniversalClient
	prefix string
	limit  int
	window time.Duration
}

// Option configures a FixedWindow.
type Option func(*FixedWindow)

// WithPrefix overrides the key prefix (default "ratelimit:").
func WithPrefix(prefix string) Option {
	return func(f *FixedWindow) {
		f.prefix = prefix
	}
}

// New returns a FixedWindow allowing limit attempts per window.
func New(client redis.UniversalClient, limit int, window time.Duration, opts ...Option) (*FixedWindow, error) {
	if limit < 1 || window <= 0 {
		return nil, ErrInvalidLimit
	}

	f := &FixedWindow{
		client: client,
		prefix: "ratelimit:",
		limit:  limit,
		window: window,
	}
	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

// hitScript increments the counter and sets the expiry on the first hit in a
// window, atomically. It returns the count and the remaining TTL in ms.
var hitScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {n, redis.call("PTTL", KEYS[1])}
`)

func (f *FixedWindow) Allow(ctx context.Context, key string) (Result, error) {
	fk := f.prefix + key

	pipe := f.client.Pipeline()
	getCmd := pipe.Get(ctx, fk)
	ttlCmd := pipe.PTTL(ctx, fk)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return Result{}, err
	}

	count, err := getCmd.Int()
	if errors.Is(err, redis.Nil) {
		return Result{Allowed: true, Remaining: f.limit}, nil
	}
	if err != nil {
		return Result{}, err
	}

	return f.result(count, ttlCmd.Val()), nil
}

func (f *FixedWindow) Hit(ctx context.Context, key string) (Result, error) {
	vals, err := hitScript.Run(ctx, f.client, []string{f.prefix + key}, f.window.Milliseconds()).Int64Slice()
	if err != nil {
		return Result{}, err
	}
	if len(vals) != 2 {
		return Result{}, errors.New("ratelimit: unexpected script reply")
	}

	return f.result(int(vals[0]), time.Duration(vals[1])*time.Millisecond), nil
}

func (f *FixedWindow) Reset(ctx context.Context, key string) error {
	return f.client.Del(ctx, f.prefix+key).Err()
}

func (f *FixedWindow) result(count int, ttl time.Duration) Result {
	res := Result{
		Allowed:   count < f.limit,
		Remaining: max(f.limit-count, 0),
	}
	if !res.Allowed {
		res.RetryAfter = max(ttl, 0)
	}
	return res
}

// Nop never limits. It backs deployments without Redis and unit tests.
type Nop struct{}

func (Nop) Allow(context.Context, string) (Result, error) {
	return Result{Allowed: true}, nil
}

func (Nop) Hit(context.Context, string) (Result, error) {
	return Result{Allowed: true}, nil
}

func (Nop) Reset(context.Context, string) error {
	return nil
}
