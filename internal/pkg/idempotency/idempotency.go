// Package idempotency runs a function at most once per key within a window,
// tracking the key's state in Redis.
package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrInProgress   = errors.New("idempotency: operation in progress")
	ErrCompleted    = errors.New("idempotency: operation already completed")
	ErrFailed       = errors.New("idempotency: operation previously failed")
	ErrUnknownState = errors.New("idempotency: unknown state")
)

type State string

const (
	StateNone       State = "none"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

func (s State) String() string {
	return string(s)
}

// Guard executes fn unless another caller already claimed key.
type Guard interface {
	Run(ctx context.Context, key string, fn func(context.Context) error, opts ...RunOption) error
}

const (
	defaultPrefix = "idempotency:"
	defaultLock   = time.Minute
	defaultTTL    = 10 * time.Minute
)

type Redis struct {
	client redis.UniversalClient
	prefix string
}

type Option func(*Redis)

func WithPrefix(prefix string) Option {
	return func(r *Redis) {
		if prefix != "" {
			r.prefix = prefix
		}
	}
}

func New(client redis.UniversalClient, opts ...Option) *Redis {
	r := &Redis{client: client, prefix: defaultPrefix}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type runOptions struct {
	lock time.Duration
	ttl  time.Duration
}

type RunOption func(*runOptions)

// WithLock bounds how long a claim is held while fn runs.
func WithLock(d time.Duration) RunOption {
	return func(o *runOptions) { o.lock = d }
}

// WithTTL sets how long the final state is remembered.
func WithTTL(d time.Duration) RunOption {
	return func(o *runOptions) { o.ttl = d }
}

// Claim marks key as in progress. It returns StateNone when the caller owns
// the key, otherwise the state another caller left behind.
func (r *Redis) Claim(ctx context.Context, key string, lock time.Duration) (State, error) {
	k := r.prefix + key

	ok, err := r.client.SetNX(ctx, k, StateInProgress.String(), lock).Result()
	if err != nil {
		return "", err
	}
	if ok {
		return StateNone, nil
	}

	v, err := r.client.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET
		return r.Claim(ctx, key, lock)
	}
	if err != nil {
		return "", err
	}

	switch State(v) {
	case StateInProgress, StateCompleted, StateFailed:
		return State(v), nil
	default:
		return "", ErrUnknownState
	}
}

func (r *Redis) mark(ctx context.Context, key string, st State, ttl time.Duration) error {
	return r.client.Set(ctx, r.prefix+key, st.String(), ttl).Err()
}

func (r *Redis) Run(ctx context.Context, key string, fn func(context.Context) error, opts ...RunOption) error {
	o := runOptions{lock: defaultLock, ttl: defaultTTL}
	for _, opt := range opts {
		opt(&o)
	}
	if o.lock <= 0 {
		o.lock = defaultLock
	}
	if o.ttl <= 0 {
		o.ttl = defaultTTL
	}

	st, err := r.Claim(ctx, key, o.lock)
	if err != nil {
		return err
	}

	switch st {
	case StateInProgress:
		return ErrInProgress
	case StateCompleted:
		return ErrCompleted
	case StateFailed:
		return ErrFailed
	}

	if err := fn(ctx); err != nil {
		if mErr := r.mark(ctx, key, StateFailed, o.ttl); mErr != nil {
			return errors.Join(err, mErr)
		}
		return err
	}

	return r.mark(ctx, key, StateCompleted, o.ttl)
}
