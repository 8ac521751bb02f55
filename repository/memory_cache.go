package repository

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryCache is a process-local CacheRepository with per-entry expiry.
type MemoryCache struct {
	mu   sync.Mutex
	ttl  time.Duration
	data map[string]memoryEntry
	now  func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:  ttl,
		data: make(map[string]memoryEntry),
		now:  time.Now,
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.data[key]
	if !ok {
		return "", false
	}
	if m.now().After(entry.expiresAt) {
		delete(m.data, key)
		return "", false
	}
	return entry.value, true
}

func (m *MemoryCache) Set(_ context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = memoryEntry{value: value, expiresAt: m.now().Add(m.ttl)}
	return nil
}

// CleanExpired drops expired entries and returns how many were removed.
func (m *MemoryCache) CleanExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for k, entry := range m.data {
		if now.After(entry.expiresAt) {
			delete(m.data, k)
			removed++
		}
	}
	return removed
}

func (m *MemoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}
