package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/drsayuj/intake-platform/pkg/logging"
)

// Decision is the outcome of one rate-limit check.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// Limiter is the capability the rate-limit middleware needs. RedisLimiter
// backs it in production, MemoryLimiter in development and tests.
type Limiter interface {
	Check(ctx context.Context, key string) (Decision, error)
}

// RedisLimiter implements a fixed window counter per key. The window key
// expires with the window, so idle clients cost nothing.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRedisLimiter allows limit requests per window per key.
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RedisLimiter{client: client, limit: limit, window: window}
}

func (l *RedisLimiter) Check(ctx context.Context, key string) (Decision, error) {
	windowKey := fmt.Sprintf("ratelimit:%s:%d", key, time.Now().Unix()/int64(l.window.Seconds()))

	count, err := l.client.Incr(ctx, windowKey).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("middleware: rate limit incr: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, windowKey, l.window).Err(); err != nil {
			return Decision{}, fmt.Errorf("middleware: rate limit expire: %w", err)
		}
	}
	if count > int64(l.limit) {
		ttl, err := l.client.TTL(ctx, windowKey).Result()
		if err != nil || ttl < 0 {
			ttl = l.window
		}
		return Decision{RetryAfter: ttl}, nil
	}
	return Decision{Allowed: true}, nil
}

// MemoryLimiter is an in-process fixed window counter for development and
// tests. Not shared across replicas.
type MemoryLimiter struct {
	mu     sync.Mutex
	counts map[string]*windowCount
	limit  int
	window time.Duration
}

type windowCount struct {
	count   int
	resetAt time.Time
}

// NewMemoryLimiter allows limit requests per window per key.
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	if window <= 0 {
		window = time.Minute
	}
	l := &MemoryLimiter{
		counts: make(map[string]*windowCount),
		limit:  limit,
		window: window,
	}
	// Periodically evict expired windows to prevent memory growth.
	go l.cleanup()
	return l
}

func (l *MemoryLimiter) cleanup() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		l.mu.Lock()
		for key, wc := range l.counts {
			if now.After(wc.resetAt) {
				delete(l.counts, key)
			}
		}
		l.mu.Unlock()
	}
}

func (l *MemoryLimiter) Check(ctx context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	wc, ok := l.counts[key]
	if !ok || now.After(wc.resetAt) {
		wc = &windowCount{resetAt: now.Add(l.window)}
		l.counts[key] = wc
	}
	wc.count++
	if wc.count > l.limit {
		return Decision{RetryAfter: time.Until(wc.resetAt)}, nil
	}
	return Decision{Allowed: true}, nil
}

var (
	_ Limiter = (*RedisLimiter)(nil)
	_ Limiter = (*MemoryLimiter)(nil)
)

// RateLimit rejects requests over the limit with 429 and a Retry-After
// header. A failing limiter store fails open: availability of the booking
// flow matters more than precise throttling.
func RateLimit(limiter Limiter, logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := r.RemoteAddr
			// Prefer X-Real-Ip set by chi's RealIP middleware.
			if xri := r.Header.Get("X-Real-Ip"); xri != "" {
				ip = xri
			}

			decision, err := limiter.Check(r.Context(), r.URL.Path+":"+ip)
			if err != nil {
				logger.Warn("rate limit check failed, allowing request", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !decision.Allowed {
				retryAfter := int(decision.RetryAfter.Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error": "Too many requests. Please try again later.",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
