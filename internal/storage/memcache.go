// internal/storage/memcache.go
package storage

import (
	"sort"
	"sync"
	"time"
)

// MemCache is a small in-memory lookup cache with TTL expiry and LRU
// trimming. It backs the per-lookup caches that survive between requests:
// resolved Drive image URLs and the Google access token. Nothing in it is
// persisted.
type MemCache struct {
	entries    map[string]*cacheEntry
	mutex      sync.RWMutex
	maxSize    int
	expiration time.Duration
}

type cacheEntry struct {
	value     interface{}
	createdAt time.Time
	lastRead  time.Time
}

// NewMemCache creates a cache holding at most maxSize entries, each valid for
// the expiration duration. Zero values fall back to 1000 entries / 5 minutes.
func NewMemCache(maxSize int, expiration time.Duration) *MemCache {
	if maxSize <= 0 {
		maxSize = 1000
	}
	if expiration <= 0 {
		expiration = 5 * time.Minute
	}

	return &MemCache{
		entries:    make(map[string]*cacheEntry),
		maxSize:    maxSize,
		expiration: expiration,
	}
}

// Get returns the cached value for key, or false when absent or expired.
func (c *MemCache) Get(key string) (interface{}, bool) {
	c.mutex.RLock()
	entry, exists := c.entries[key]
	c.mutex.RUnlock()

	if !exists {
		return nil, false
	}
	if time.Since(entry.createdAt) > c.expiration {
		c.mutex.Lock()
		delete(c.entries, key)
		c.mutex.Unlock()
		return nil, false
	}

	c.mutex.Lock()
	entry.lastRead = time.Now()
	c.mutex.Unlock()
	return entry.value, true
}

// Set stores a value, trimming the least recently read entries when the
// cache grows past its limit.
func (c *MemCache) Set(key string, value interface{}) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	c.entries[key] = &cacheEntry{
		value:     value,
		createdAt: now,
		lastRead:  now,
	}

	if len(c.entries) > c.maxSize {
		c.trimLRU(max(1, c.maxSize/5))
	}
}

// Len reports the number of cached entries, expired or not.
func (c *MemCache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.entries)
}

// Clear drops all entries.
func (c *MemCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// trimLRU removes the count least recently read entries. Caller holds the
// write lock.
func (c *MemCache) trimLRU(count int) {
	type keyAge struct {
		key  string
		time time.Time
	}

	entries := make([]keyAge, 0, len(c.entries))
	for k, v := range c.entries {
		entries = append(entries, keyAge{k, v.lastRead})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].time.Before(entries[j].time)
	})

	for i := 0; i < min(count, len(entries)); i++ {
		delete(c.entries, entries[i].key)
	}
}
