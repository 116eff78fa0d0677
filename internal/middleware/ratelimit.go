package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"carbwise/internal/metrics"
	"carbwise/internal/model"

	"github.com/juju/ratelimit"
	"github.com/rs/zerolog"
)

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	rate     float64
	capacity int64
	clients  map[string]*ratelimit.Bucket
	mu       sync.RWMutex
	logger   zerolog.Logger
}

// NewRateLimiter creates a limiter that refills rate tokens per second up to capacity.
func NewRateLimiter(rate float64, capacity int64, logger zerolog.Logger) *RateLimiter {
	return &RateLimiter{
		rate:     rate,
		capacity: capacity,
		clients:  make(map[string]*ratelimit.Bucket),
		logger:   logger.With().Str("component", "ratelimit").Logger(),
	}
}

func (rl *RateLimiter) getBucket(clientIP string) *ratelimit.Bucket {
	rl.mu.RLock()
	bucket, exists := rl.clients[clientIP]
	rl.mu.RUnlock()

	if !exists {
		rl.mu.Lock()
		if bucket, exists = rl.clients[clientIP]; !exists {
			bucket = ratelimit.NewBucketWithRate(rl.rate, rl.capacity)
			rl.clients[clientIP] = bucket
			metrics.RateLimiterBuckets.Set(float64(len(rl.clients)))
		}
		rl.mu.Unlock()
	}

	return bucket
}

// Cleanup drops buckets that have refilled completely. It returns the
// number of buckets removed.
func (rl *RateLimiter) Cleanup() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for ip, bucket := range rl.clients {
		if bucket.Available() == bucket.Capacity() {
			delete(rl.clients, ip)
			removed++
		}
	}
	metrics.RateLimiterBuckets.Set(float64(len(rl.clients)))

	rl.logger.Debug().
		Int("removed", removed).
		Int("remaining", len(rl.clients)).
		Msg("rate limiter buckets cleaned")

	return removed
}

// Len returns the number of tracked clients.
func (rl *RateLimiter) Len() int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	return len(rl.clients)
}

// tokenCost prices a request. Meal estimates resolve several foods and a
// reload reparses the whole dataset, so both cost more than a lookup.
func tokenCost(r *http.Request) int64 {
	switch path := r.URL.Path; {
	case publicPaths[path]:
		return 0
	case path == "/api/catalog/reload":
		return 50
	case path == "/api/meals" || strings.HasPrefix(path, "/api/meals/estimate"):
		return 5
	default:
		return 1
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Handler enforces the per-client limit and reports it in X-RateLimit-* headers.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	limit := strconv.FormatInt(rl.capacity, 10)
	rate := strconv.FormatFloat(rl.rate, 'f', -1, 64)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// a bucket smaller than the route cost would refuse it forever
		cost := min(tokenCost(r), rl.capacity)
		if cost == 0 {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientIP(r)
		bucket := rl.getBucket(ip)

		w.Header().Set("X-RateLimit-Limit", limit)
		w.Header().Set("X-RateLimit-Rate", rate)

		if bucket.TakeAvailable(cost) < cost {
			rl.logger.Warn().
				Str("client", ip).
				Str("path", r.URL.Path).
				Int64("cost", cost).
				Msg("rate limit exceeded")
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, model.ErrCodeRateLimited, "rate limit exceeded")
			return
		}

		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(bucket.Available(), 10))

		next.ServeHTTP(w, r)
	})
}
