package middleware

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter decides whether the key may make another request in the
// current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type visitor struct {
	count       int
	windowStart time.Time
}

// RateLimiter is an in-process fixed-window limiter.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
	now      func() time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}

	// Cleanup goroutine
	go func() {
		for {
			time.Sleep(window)
			rl.mu.Lock()
			for key, v := range rl.visitors {
				if rl.now().Sub(v.windowStart) >= window {
					delete(rl.visitors, key)
				}
			}
			rl.mu.Unlock()
		}
	}()

	return rl
}

func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	// The window is anchored at its first request, like the Redis key's TTL.
	now := rl.now()
	v, exists := rl.visitors[key]
	if !exists || now.Sub(v.windowStart) >= rl.window {
		rl.visitors[key] = &visitor{count: 1, windowStart: now}
		return true, nil
	}

	v.count++
	return v.count <= rl.limit, nil
}

// RedisRateLimiter shares the fixed window across instances.
type RedisRateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, limit: limit, window: window, prefix: "ratelimit:chat:"}
}

func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := rl.prefix + key

	count, err := rl.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit counter: %w", err)
	}
	if count == 1 {
		if err := rl.client.Expire(ctx, redisKey, rl.window).Err(); err != nil {
			return false, fmt.Errorf("rate limit window: %w", err)
		}
	}

	return count <= int64(rl.limit), nil
}

// RateLimit rejects clients over the limit with 429. A failing limiter
// lets the request through.
func RateLimit(l Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, err := l.Allow(r.Context(), clientKey(r))
			if err != nil {
				log.Printf("rate limiter unavailable: %v", err)
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.", r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientKey is the authenticated subject when there is one, else the
// remote address (already rewritten by chi's RealIP).
func clientKey(r *http.Request) string {
	if subject, ok := GetSubject(r.Context()); ok {
		return "user:" + subject
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
