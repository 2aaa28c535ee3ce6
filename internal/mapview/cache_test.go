package mapview

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCache_GetPut(t *testing.T) {
	cache := NewRenderCache(10, time.Hour)

	_, ok := cache.Get("Entire home/apt\x00Centro")
	assert.False(t, ok)

	m := &MapModel{ID: "a"}
	cache.Put("Entire home/apt\x00Centro", m)

	got, ok := cache.Get("Entire home/apt\x00Centro")
	require.True(t, ok)
	assert.Same(t, m, got)
}

func TestRenderCache_DefaultKeepsLastOnly(t *testing.T) {
	cache := NewRenderCache(0, 0)

	cache.Put("a", &MapModel{ID: "a"})
	cache.Put("b", &MapModel{ID: "b"})

	_, ok := cache.Get("a")
	assert.False(t, ok)
	got, ok := cache.Get("b")
	require.True(t, ok)
	assert.Equal(t, "b", got.ID)
	assert.Equal(t, 1, cache.Stats().MaxEntries)
}

func TestRenderCache_TTLExpiration(t *testing.T) {
	cache := NewRenderCache(10, 50*time.Millisecond)

	cache.Put("a", &MapModel{})
	_, ok := cache.Get("a")
	assert.True(t, ok)

	time.Sleep(60 * time.Millisecond)
	_, ok = cache.Get("a")
	assert.False(t, ok)

	cache.mu.RLock()
	_, exists := cache.entries["a"]
	cache.mu.RUnlock()
	assert.False(t, exists)
}

func TestRenderCache_LRUEviction_AccessOrder(t *testing.T) {
	cache := NewRenderCache(3, time.Hour)

	cache.Put("a", &MapModel{})
	cache.Put("b", &MapModel{})
	cache.Put("c", &MapModel{})

	// Touch "a" so "b" becomes the oldest.
	cache.Get("a")
	cache.Put("d", &MapModel{})

	for key, want := range map[string]bool{"a": true, "b": false, "c": true, "d": true} {
		_, ok := cache.Get(key)
		assert.Equal(t, want, ok, key)
	}
}

func TestRenderCache_UpdateExistingKey(t *testing.T) {
	cache := NewRenderCache(5, time.Hour)

	cache.Put("a", &MapModel{ID: "old"})
	cache.Put("a", &MapModel{ID: "new"})

	got, ok := cache.Get("a")
	require.True(t, ok)
	assert.Equal(t, "new", got.ID)
	assert.Equal(t, 1, cache.Stats().Entries)
}

func TestRenderCache_Stats(t *testing.T) {
	cache := NewRenderCache(100, time.Hour)

	cache.Put("a", &MapModel{})
	cache.Put("b", &MapModel{})
	cache.Get("a") // hit
	cache.Get("b") // hit
	cache.Get("c") // miss

	stats := cache.Stats()
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.InDelta(t, 0.6667, stats.HitRate, 0.01)
}

func TestRenderCache_ConcurrentAccess(t *testing.T) {
	cache := NewRenderCache(50, time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := string(rune('a' + n%26))
			cache.Put(key, &MapModel{})
			cache.Get(key)
		}(i)
	}
	wg.Wait()

	stats := cache.Stats()
	assert.LessOrEqual(t, stats.Entries, 50)
	assert.Equal(t, int64(100), stats.Hits+stats.Misses)
}
