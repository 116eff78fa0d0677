package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"carbwise/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Handler(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// a near-zero refill rate keeps the bucket from refilling during the test
	rl := NewRateLimiter(0.001, 3, zerolog.Nop())
	handler := rl.Handler(okHandler)

	send := func(path, remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 3; i++ {
		w := send("/api/foods/search", "10.0.0.1:1234")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
	}

	w := send("/api/foods/search", "10.0.0.1:5678")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Contains(t, w.Body.String(), "rate limit exceeded")
	assert.Contains(t, w.Body.String(), model.ErrCodeRateLimited)

	// other clients have their own bucket
	w = send("/api/foods/search", "10.0.0.2:1234")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Remaining"))

	// free endpoints are never limited
	w = send("/health", "10.0.0.1:1234")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))

	assert.Equal(t, 2, rl.Len())
}

func TestRateLimiter_CostCappedAtCapacity(t *testing.T) {
	rl := NewRateLimiter(0.001, 10, zerolog.Nop())
	handler := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	reload := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/catalog/reload", nil)
		req.RemoteAddr = "10.0.0.9:4000"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	// the reload costs more than the bucket holds, so it drains a full bucket
	w := reload()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = reload()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRateLimiter(0.001, 5, zerolog.Nop())

	// untouched bucket is full and gets removed; drained bucket stays
	rl.getBucket("10.0.0.1")
	rl.getBucket("10.0.0.2").TakeAvailable(2)

	removed := rl.Cleanup()

	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, rl.Len())
}

func TestTokenCost(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected int64
	}{
		{name: "Health is free", path: "/health", expected: 0},
		{name: "Metrics are free", path: "/metrics", expected: 0},
		{name: "Reload", path: "/api/catalog/reload", expected: 50},
		{name: "Meal estimate", path: "/api/meals/estimate", expected: 5},
		{name: "Meal save", path: "/api/meals", expected: 5},
		{name: "Search", path: "/api/foods/search", expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.expected, tokenCost(req))
		})
	}
}
