package rates

import (
	"sync"
	"time"

	converter "github.com/malusev998/ledger-converter"
)

// DefaultTTL is how long a fetched rate stays usable before a fresh fetch
// is forced.
const DefaultTTL = time.Hour

type (
	CacheEntry struct {
		Rate      float64
		FetchedAt time.Time
		ExpiresAt time.Time
	}

	CacheStats struct {
		Entries     int
		OldestFetch time.Time
	}

	// Cache is an in-memory rate store with TTL eviction. Expired entries are
	// purged lazily on the next lookup of their key. Concurrent callers may
	// race on the same key, last write wins, which is acceptable for a cache.
	Cache struct {
		mu      sync.Mutex
		entries map[string]CacheEntry
		ttl     time.Duration
		now     func() time.Time
	}
)

// NewCache builds a cache with the given TTL. The now function exists so
// tests can drive expiry with a fake clock, pass nil for the wall clock.
func NewCache(ttl time.Duration, now func() time.Time) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	if now == nil {
		now = time.Now
	}

	return &Cache{
		entries: make(map[string]CacheEntry),
		ttl:     ttl,
		now:     now,
	}
}

// Get returns the entry for the pair if it exists and has not expired.
// An expired entry is deleted as a side effect of the lookup.
func (c *Cache) Get(pair converter.Pair) (CacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[pair.Key()]

	if !ok {
		return CacheEntry{}, false
	}

	if !c.now().Before(entry.ExpiresAt) {
		delete(c.entries, pair.Key())
		return CacheEntry{}, false
	}

	return entry, true
}

// Set stores a rate for the pair, expiring TTL from now.
func (c *Cache) Set(pair converter.Pair, rate float64) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[pair.Key()] = CacheEntry{
		Rate:      rate,
		FetchedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]CacheEntry)
}

// Stats reports the number of live entries and the oldest fetch time.
// OldestFetch is the zero time when the cache is empty.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := CacheStats{Entries: len(c.entries)}

	for _, entry := range c.entries {
		if stats.OldestFetch.IsZero() || entry.FetchedAt.Before(stats.OldestFetch) {
			stats.OldestFetch = entry.FetchedAt
		}
	}

	return stats
}
