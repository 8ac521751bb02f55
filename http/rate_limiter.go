package http

import (
	"sync"
	"time"
)

const (
	idleBucketTTL = time.Hour
	sweepInterval = 30 * time.Minute
)

// bucket is one client's allowance for the current window.
type bucket struct {
	remaining   int
	windowStart time.Time
}

// take consumes one token, opening a fresh window first when the current
// one has elapsed. It returns the wait until the next window when empty.
func (b *bucket) take(now time.Time, capacity int, window time.Duration) (bool, time.Duration) {
	if elapsed := now.Sub(b.windowStart); elapsed >= window {
		b.remaining = capacity
		b.windowStart = now
	}
	if b.remaining < 1 {
		return false, b.windowStart.Add(window).Sub(now)
	}
	b.remaining--
	return true, 0
}

// RateLimiter grants each client capacity requests per window.
type RateLimiter struct {
	capacity int
	window   time.Duration
	now      func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket

	done     chan struct{}
	stopOnce sync.Once
}

func NewRateLimiter(capacity int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		capacity: capacity,
		window:   window,
		now:      time.Now,
		buckets:  make(map[string]*bucket),
		done:     make(chan struct{}),
	}
	go rl.sweepLoop()
	return rl
}

// Allow reports whether the client identified by key may proceed and, when
// it may not, how long until its window reopens.
func (r *RateLimiter) Allow(key string) (bool, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.buckets[key]
	if !ok {
		// A zero windowStart makes take open the first window.
		b = &bucket{}
		r.buckets[key] = b
	}
	return b.take(r.now(), r.capacity, r.window)
}

// Stop ends the sweep goroutine. Safe to call more than once.
func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.done) })
}

func (r *RateLimiter) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

// sweep drops buckets idle for longer than idleBucketTTL and returns how
// many were removed.
func (r *RateLimiter) sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-idleBucketTTL)
	removed := 0
	for key, b := range r.buckets {
		if b.windowStart.Before(cutoff) {
			delete(r.buckets, key)
			removed++
		}
	}
	return removed
}
