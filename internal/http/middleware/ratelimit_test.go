package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRateLimiterTokenBucket(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	now := time.Unix(1_700_000_000, 0)
	rl := NewRateLimiter(ctx, 1, 2)
	rl.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		if ok, _ := rl.Allow(ctx, "1.2.3.4"); !ok {
			t.Fatalf("request %d should be allowed within burst", i)
		}
	}
	if ok, _ := rl.Allow(ctx, "1.2.3.4"); ok {
		t.Fatalf("request beyond burst should be rejected")
	}
	if ok, _ := rl.Allow(ctx, "5.6.7.8"); !ok {
		t.Fatalf("other keys have their own bucket")
	}

	now = now.Add(time.Second)
	if ok, _ := rl.Allow(ctx, "1.2.3.4"); !ok {
		t.Fatalf("bucket should refill over time")
	}
}

func TestRedisRateLimiterFixedWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	now := time.Unix(1_700_000_000, 0)
	rl := NewRedisRateLimiter(client, 2, time.Second)
	rl.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := rl.Allow(ctx, "1.2.3.4")
		if err != nil || !ok {
			t.Fatalf("request %d should be allowed: ok=%v err=%v", i, ok, err)
		}
	}
	if ok, _ := rl.Allow(ctx, "1.2.3.4"); ok {
		t.Fatalf("third request in window should be rejected")
	}

	key := "honeypot:ratelimit:1.2.3.4:1700000000"
	if ttl := mr.TTL(key); ttl <= 0 {
		t.Fatalf("expected window key to expire, ttl=%v", ttl)
	}

	now = now.Add(time.Second)
	if ok, _ := rl.Allow(ctx, "1.2.3.4"); !ok {
		t.Fatalf("next window should be allowed")
	}
}

func TestRedisRateLimiterReportsErrors(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	if _, err := NewRedisRateLimiter(client, 1, time.Second).Allow(context.Background(), "k"); err == nil {
		t.Fatalf("expected error when redis is down")
	}
}

type fixedLimiter struct {
	allowed bool
	err     error
}

func (f fixedLimiter) Allow(context.Context, string) (bool, error) { return f.allowed, f.err }

func TestRateLimitMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		limiter  Limiter
		wantCode int
	}{
		{"allowed", fixedLimiter{allowed: true}, http.StatusOK},
		{"rejected", fixedLimiter{allowed: false}, http.StatusTooManyRequests},
		{"limiter error fails open", fixedLimiter{err: errors.New("redis down")}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RateLimit(tt.limiter, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

			if rec.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d", tt.wantCode, rec.Code)
			}
			if tt.wantCode == http.StatusTooManyRequests && rec.Header().Get("Retry-After") == "" {
				t.Fatalf("expected Retry-After header")
			}
		})
	}
}
