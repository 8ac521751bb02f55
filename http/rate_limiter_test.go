package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Allow(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()
	rl.now = func() time.Time { return now }

	ok, _ := rl.Allow("1.1.1.1")
	assert.True(t, ok)
	ok, _ = rl.Allow("1.1.1.1")
	assert.True(t, ok)

	now = now.Add(15 * time.Second)
	ok, retry := rl.Allow("1.1.1.1")
	assert.False(t, ok)
	assert.Equal(t, 45*time.Second, retry)

	ok, _ = rl.Allow("2.2.2.2")
	assert.True(t, ok, "clients have separate buckets")

	now = now.Add(45 * time.Second)
	ok, _ = rl.Allow("1.1.1.1")
	assert.True(t, ok, "bucket refills after the window")
}

func TestRateLimiter_Sweep(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, time.Minute)
	rl.Stop()
	rl.Stop()
	rl.now = func() time.Time { return now }

	rl.Allow("a")
	now = now.Add(2 * time.Hour)
	rl.Allow("b")

	assert.Equal(t, 1, rl.sweep())
	assert.Len(t, rl.buckets, 1)
}

func TestRateLimitMiddleware(t *testing.T) {
	api := newTestAPI(t, 2)

	codes := make([]int, 0, 3)
	for range 3 {
		codes = append(codes, api.do(http.MethodGet, "/companies", nil).Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	w := httptest.NewRecorder()
	api.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/companies", nil))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimitMiddleware_IgnoresSpoofedForwardedFor(t *testing.T) {
	api := newTestAPI(t, 2)

	allowed := 0
	for i := range 50 {
		req := httptest.NewRequest(http.MethodGet, "/companies", nil)
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))
		w := httptest.NewRecorder()
		api.handler.ServeHTTP(w, req)
		if w.Code == http.StatusOK {
			allowed++
		}
	}
	assert.Equal(t, 2, allowed)
}

func TestRateLimitMiddleware_TrustedProxy(t *testing.T) {
	api := newTestAPI(t, 1, "10.0.0.0/8")

	send := func(forwardedFor string) int {
		req := httptest.NewRequest(http.MethodGet, "/companies", nil)
		req.RemoteAddr = "10.0.0.5:443"
		req.Header.Set("X-Forwarded-For", forwardedFor)
		w := httptest.NewRecorder()
		api.handler.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("203.0.113.7"))
	assert.Equal(t, http.StatusOK, send("203.0.113.8"), "distinct clients behind the proxy")
	assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.7"))
	assert.Equal(t, http.StatusTooManyRequests, send("198.51.100.1, 203.0.113.7"),
		"a client-written prefix does not open a new bucket")
}
