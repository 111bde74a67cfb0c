package repository

import (
	"context"
	"sync"
	"time"
)

const defaultMemoryCacheEntries = 1000

type memoryEntry struct {
	value     string
	storedAt  time.Time
	expiresAt time.Time // zero means no expiry
}

// MemoryCache is an in-process cache bounded by entry count. Expired entries
// miss on Get; when the cache is full, Set drops expired entries and then the
// oldest ones.
type MemoryCache struct {
	mu         sync.Mutex
	data       map[string]memoryEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// NewMemoryCache keeps entries for ttl (zero keeps them until evicted) and
// holds at most maxEntries (non-positive uses 1000).
func NewMemoryCache(ttl time.Duration, maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = defaultMemoryCacheEntries
	}
	return &MemoryCache{
		data:       make(map[string]memoryEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.data[key]
	if !ok {
		return "", false
	}
	if m.expired(entry, m.now()) {
		delete(m.data, key)
		return "", false
	}
	return entry.value, true
}

func (m *MemoryCache) Set(_ context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if _, exists := m.data[key]; !exists && len(m.data) >= m.maxEntries {
		m.evict(now)
	}

	entry := memoryEntry{value: value, storedAt: now}
	if m.ttl > 0 {
		entry.expiresAt = now.Add(m.ttl)
	}
	m.data[key] = entry
	return nil
}

// evict makes room for one entry. Callers hold m.mu.
func (m *MemoryCache) evict(now time.Time) {
	for key, entry := range m.data {
		if m.expired(entry, now) {
			delete(m.data, key)
		}
	}
	for len(m.data) >= m.maxEntries {
		var (
			oldestKey string
			oldest    time.Time
			found     bool
		)
		for key, entry := range m.data {
			if !found || entry.storedAt.Before(oldest) {
				oldestKey, oldest, found = key, entry.storedAt, true
			}
		}
		delete(m.data, oldestKey)
	}
}

func (m *MemoryCache) expired(entry memoryEntry, now time.Time) bool {
	return !entry.expiresAt.IsZero() && !now.Before(entry.expiresAt)
}

// Len returns the number of stored entries, expired ones included until
// they are evicted.
func (m *MemoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}
