package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/turtacn/DeepBDE-Console/pkg/errors"
)

// RateLimiter decides whether a request identified by key may proceed.
type RateLimiter interface {
	Allow(key string) (bool, RateLimitInfo)
}

// RateLimitInfo contains current rate limit state for a given key.
type RateLimitInfo struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RateLimitConfig holds configuration for the rate limit middleware.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int

	// KeyFunc extracts the rate limit key from a request.  Defaults to the
	// client address.
	KeyFunc func(r *http.Request) string

	// SkipPaths bypass rate limiting.
	SkipPaths []string

	// CleanupInterval is how long a client may stay idle before its bucket
	// is dropped.
	CleanupInterval time.Duration
}

// DefaultRateLimitConfig returns a rate limit of rps with the given burst.
func DefaultRateLimitConfig(rps float64, burst int) RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: rps,
		BurstSize:         burst,
		KeyFunc:           ClientAddrKey,
		SkipPaths:         []string{"/healthz", "/readyz", "/metrics"},
		CleanupInterval:   5 * time.Minute,
	}
}

// ClientAddrKey keys requests by client host.  It expects chi's RealIP
// middleware to have rewritten RemoteAddr for proxied requests.
func ClientAddrKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

type tokenBucket struct {
	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// TokenBucketLimiter implements RateLimiter with one token bucket per key.
// Buckets live in a go-cache and expire after idle time without requests.
type TokenBucketLimiter struct {
	rate    float64
	burst   int
	buckets *cache.Cache
	create  sync.Mutex
	now     func() time.Time
}

// NewTokenBucketLimiter refills rate tokens per second up to burst.  A
// positive idle drops buckets unused for that long, swept every idle; zero
// keeps them forever.
func NewTokenBucketLimiter(rate float64, burst int, idle time.Duration) *TokenBucketLimiter {
	if burst < 1 {
		burst = 1
	}
	ttl, sweep := cache.NoExpiration, time.Duration(0)
	if idle > 0 {
		ttl, sweep = idle, idle
	}
	return &TokenBucketLimiter{
		rate:    rate,
		burst:   burst,
		buckets: cache.New(ttl, sweep),
		now:     time.Now,
	}
}

func (l *TokenBucketLimiter) bucket(key string, now time.Time) *tokenBucket {
	if b, ok := l.buckets.Get(key); ok {
		l.buckets.SetDefault(key, b)
		return b.(*tokenBucket)
	}
	l.create.Lock()
	defer l.create.Unlock()
	if b, ok := l.buckets.Get(key); ok {
		return b.(*tokenBucket)
	}
	b := &tokenBucket{tokens: float64(l.burst), lastRefill: now}
	l.buckets.SetDefault(key, b)
	return b
}

// Allow takes one token from key's bucket.
func (l *TokenBucketLimiter) Allow(key string) (bool, RateLimitInfo) {
	now := l.now()
	b := l.bucket(key, now)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.tokens = math.Min(float64(l.burst), b.tokens+now.Sub(b.lastRefill).Seconds()*l.rate)
	b.lastRefill = now

	info := RateLimitInfo{
		Limit:   l.burst,
		ResetAt: now.Add(time.Duration(float64(time.Second) / l.rate)),
	}
	if b.tokens < 1 {
		return false, info
	}
	b.tokens--
	info.Remaining = int(b.tokens)
	return true, info
}

// cleanup drops the expired buckets now instead of waiting for the sweep.
func (l *TokenBucketLimiter) cleanup() {
	l.buckets.DeleteExpired()
}

// Stop forgets every bucket.
func (l *TokenBucketLimiter) Stop() {
	l.buckets.Flush()
}

// BucketCount returns the number of tracked keys.
func (l *TokenBucketLimiter) BucketCount() int {
	return l.buckets.ItemCount()
}

// RateLimit returns middleware that answers 429 with a Retry-After header
// once a key runs out of tokens.
func RateLimit(limiter RateLimiter, config RateLimitConfig) func(http.Handler) http.Handler {
	skip := make(map[string]struct{}, len(config.SkipPaths))
	for _, p := range config.SkipPaths {
		skip[p] = struct{}{}
	}
	keyFunc := config.KeyFunc
	if keyFunc == nil {
		keyFunc = ClientAddrKey
	}
	body := []byte(`{"code":"` + errors.ErrCodeTooManyRequests.String() + `","message":"rate limit exceeded, please retry later"}`)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skip[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			allowed, info := limiter.Allow(keyFunc(r))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetAt.Unix(), 10))

			if !allowed {
				retryAfter := time.Until(info.ResetAt).Seconds()
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter)))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write(body)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

//Personal.AI order the ending
