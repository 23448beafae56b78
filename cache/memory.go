package cache

import (
	"sync"
	"time"
)

// cacheEntry holds a cached value with its insertion time.
type cacheEntry struct {
	value     string
	timestamp time.Time
}

// InMemoryCache is a thread-safe in-memory cache with TTL support.
// Translated pages can be large, so the number of entries is bounded;
// when full, the oldest entry is evicted.
type InMemoryCache struct {
	mu         sync.RWMutex
	cache      map[string]cacheEntry
	ttl        time.Duration
	maxEntries int
}

// DefaultMaxEntries bounds an InMemoryCache created without an explicit limit.
const DefaultMaxEntries = 256

// NewInMemoryCache creates a new in-memory cache with the specified TTL.
// If ttlSeconds is 0 or negative, entries never expire.
func NewInMemoryCache(ttlSeconds int) *InMemoryCache {
	return NewInMemoryCacheWithLimit(ttlSeconds, DefaultMaxEntries)
}

// NewInMemoryCacheWithLimit creates a cache holding at most maxEntries
// values. A limit of 0 or less means unbounded.
func NewInMemoryCacheWithLimit(ttlSeconds, maxEntries int) *InMemoryCache {
	var ttl time.Duration
	if ttlSeconds > 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}
	return &InMemoryCache{
		cache:      make(map[string]cacheEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

// Get retrieves a value from the cache.
func (c *InMemoryCache) Get(key string) (string, bool) {
	c.mu.RLock()
	entry, ok := c.cache[key]
	c.mu.RUnlock()

	if !ok {
		return "", false
	}

	if c.expired(entry, time.Now()) {
		c.mu.Lock()
		delete(c.cache, key)
		c.mu.Unlock()
		return "", false
	}

	return entry.value, true
}

// Set stores a value in the cache.
func (c *InMemoryCache) Set(key string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.cache[key]; !exists && c.maxEntries > 0 && len(c.cache) >= c.maxEntries {
		c.evictLocked()
	}

	c.cache[key] = cacheEntry{
		value:     value,
		timestamp: time.Now(),
	}
	return nil
}

// evictLocked drops expired entries, or the oldest one if none expired.
func (c *InMemoryCache) evictLocked() {
	now := time.Now()
	var oldestKey string
	var oldest time.Time
	evicted := false

	for key, entry := range c.cache {
		if c.expired(entry, now) {
			delete(c.cache, key)
			evicted = true
			continue
		}
		if oldestKey == "" || entry.timestamp.Before(oldest) {
			oldestKey = key
			oldest = entry.timestamp
		}
	}

	if !evicted && oldestKey != "" {
		delete(c.cache, oldestKey)
	}
}

func (c *InMemoryCache) expired(entry cacheEntry, now time.Time) bool {
	return c.ttl > 0 && now.Sub(entry.timestamp) > c.ttl
}

// Delete removes a key from the cache.
func (c *InMemoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cache, key)
}

// Len returns the number of entries in the cache (including expired ones).
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Clear removes all entries from the cache.
func (c *InMemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]cacheEntry)
}

// Entries returns a copy of every unexpired entry.
func (c *InMemoryCache) Entries() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := time.Now()
	out := make(map[string]string, len(c.cache))
	for k, e := range c.cache {
		if !c.expired(e, now) {
			out[k] = e.value
		}
	}
	return out
}
