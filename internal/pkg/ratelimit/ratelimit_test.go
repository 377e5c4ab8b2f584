package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping redis integration test in short mode")
	}

	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("start redis container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate redis container: %v", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("redis connection string: %v", err)
	}

	opts, err := redis.ParseURL(uri)
	if err != nil {
		t.Fatalf("parse redis url: %v", err)
	}

	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestNewValidation(t *testing.T) {
	if _, err := New(nil, 0, time.Minute); !errors.Is(err, ErrInvalidLimit) {
		t.Fatalf("expected ErrInvalidLimit, got %v", err)
	}
	if _, err := New(nil, 3, 0); !errors.Is(err, ErrInvalidLimit) {
		t.Fatalf("expected ErrInvalidLimit, got %v", err)
	}
}

func TestFixedWindow(t *testing.T) {
	// Arrange
	client := newRedis(t)
	ctx := context.Background()
	limiter, err := New(client, 3, time.Minute, WithPrefix("test:login:"))
	if err != nil {
		t.Fatalf("new limiter: %v", err)
	}

	// Act & Assert
	res, err := limiter.Allow(ctx, "jane@example.com")
	if err != nil || !res.Allowed || res.Remaining != 3 {
		t.Fatalf("fresh key: %+v, %v", res, err)
	}

	for i := 1; i <= 2; i++ {
		res, err = limiter.Hit(ctx, "jane@example.com")
		if err != nil || !res.Allowed || res.Remaining != 3-i {
			t.Fatalf("hit %d: %+v, %v", i, res, err)
		}
	}

	res, err = limiter.Hit(ctx, "jane@example.com")
	if err != nil || res.Allowed || res.RetryAfter <= 0 {
		t.Fatalf("third hit should exhaust the window: %+v, %v", res, err)
	}

	res, err = limiter.Allow(ctx, "jane@example.com")
	if err != nil || res.Allowed {
		t.Fatalf("expected blocked: %+v, %v", res, err)
	}

	res, err = limiter.Allow(ctx, "other@example.com")
	if err != nil || !res.Allowed {
		t.Fatalf("keys must be independent: %+v, %v", res, err)
	}

	if err := limiter.Reset(ctx, "jane@example.com"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	res, err = limiter.Allow(ctx, "jane@example.com")
	if err != nil || !res.Allowed {
		t.Fatalf("expected allowed after reset: %+v, %v", res, err)
	}
}

func TestFixedWindowExpires(t *testing.T) {
	client := newRedis(t)
	ctx := context.Background()
	limiter, err := New(client, 1, 200*time.Millisecond)
	if err != nil {
		t.Fatalf("new limiter: %v", err)
	}

	if res, err := limiter.Hit(ctx, "k"); err != nil || res.Allowed {
		t.Fatalf("expected exhausted: %+v, %v", res, err)
	}

	time.Sleep(400 * time.Millisecond)

	if res, err := limiter.Allow(ctx, "k"); err != nil || !res.Allowed {
		t.Fatalf("expected window to expire: %+v, %v", res, err)
	}
}

func TestNop(t *testing.T) {
	var l Limiter = Nop{}
	for range 100 {
		if res, err := l.Hit(context.Background(), "k"); err != nil || !res.Allowed {
			t.Fatalf("nop limited: %+v, %v", res, err)
		}
	}
}
