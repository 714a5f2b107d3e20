// internal/storage/memcache_test.go
package storage

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemCacheSetGet(t *testing.T) {
	cache := NewMemCache(10, time.Minute)

	cache.Set("k", "v")
	got, ok := cache.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)

	_, ok = cache.Get("absent")
	assert.False(t, ok)
}

func TestMemCacheExpiry(t *testing.T) {
	cache := NewMemCache(10, 10*time.Millisecond)

	cache.Set("k", "v")
	time.Sleep(25 * time.Millisecond)

	_, ok := cache.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())
}

func TestMemCacheTrimsLRU(t *testing.T) {
	cache := NewMemCache(10, time.Minute)

	for i := 0; i < 11; i++ {
		cache.Set(fmt.Sprintf("k%d", i), i)
	}

	assert.LessOrEqual(t, cache.Len(), 10)
}

func TestMemCacheClear(t *testing.T) {
	cache := NewMemCache(10, time.Minute)
	cache.Set("k", "v")

	cache.Clear()
	assert.Equal(t, 0, cache.Len())
}

func TestMemCacheZeroConfigDefaults(t *testing.T) {
	cache := NewMemCache(0, 0)
	cache.Set("k", "v")

	got, ok := cache.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)
}
