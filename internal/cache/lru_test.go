package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/omen/internal/cache"
)

func TestBlobCache_GetPutRoundTrip(t *testing.T) {
	t.Parallel()

	c := cache.New(1024)

	data, ok := c.Get("missing")
	assert.False(t, ok)
	assert.Nil(t, data)

	c.Put("greeting", []byte("hello world"))

	got, ok := c.Get("greeting")
	require.True(t, ok)
	assert.Equal(t, []byte("hello world"), got)
}

func TestBlobCache_PutClonesInput(t *testing.T) {
	t.Parallel()

	c := cache.New(1024)

	original := []byte("mutate me")
	c.Put("key", original)
	original[0] = 'X'

	got, ok := c.Get("key")
	require.True(t, ok)
	assert.Equal(t, []byte("mutate me"), got, "cache must not alias caller-owned slices")
}

func TestBlobCache_EvictsLowestCostWhenOverBudget(t *testing.T) {
	t.Parallel()

	c := cache.New(100)

	blob1 := make([]byte, 40)
	blob2 := make([]byte, 40)
	blob3 := make([]byte, 40)

	c.Put("a", blob1)
	c.Put("b", blob2)

	_, ok := c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("b")
	assert.True(t, ok)

	// Re-access "b" so it has a higher access count than "a" before the
	// third insert forces an eviction.
	_, _ = c.Get("b")

	c.Put("c", blob3)

	_, aOK := c.Get("a")
	_, bOK := c.Get("b")
	_, cOK := c.Get("c")

	assert.False(t, aOK, "lowest-cost entry should have been evicted")
	assert.True(t, bOK, "frequently accessed entry should survive")
	assert.True(t, cOK, "newly inserted entry should be present")
}

func TestBlobCache_OversizedBlobNeverCached(t *testing.T) {
	t.Parallel()

	c := cache.New(10)

	c.Put("huge", make([]byte, 100))

	_, ok := c.Get("huge")
	assert.False(t, ok)

	stats := c.Stats()
	assert.Equal(t, 0, stats.Entries)
}

func TestBlobCache_RepeatedPutIncrementsAccessCountWithoutDuplicating(t *testing.T) {
	t.Parallel()

	c := cache.New(1024)

	c.Put("key", []byte("v1"))
	c.Put("key", []byte("v1"))

	stats := c.Stats()
	assert.Equal(t, 1, stats.Entries)
}

func TestBlobCache_StatsTracksHitsAndMisses(t *testing.T) {
	t.Parallel()

	c := cache.New(1024)

	c.Put("key", []byte("value"))

	_, _ = c.Get("key")
	_, _ = c.Get("key")
	_, _ = c.Get("absent")

	stats := c.Stats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.InDelta(t, 2.0/3.0, stats.HitRate(), 0.0001)
}

func TestBlobCache_HitRateZeroWhenNoAccesses(t *testing.T) {
	t.Parallel()

	c := cache.New(1024)

	assert.InDelta(t, 0.0, c.Stats().HitRate(), 0.0001)
}

func TestBlobCache_Clear(t *testing.T) {
	t.Parallel()

	c := cache.New(1024)

	c.Put("key", []byte("value"))
	_, _ = c.Get("key")

	c.Clear()

	stats := c.Stats()
	assert.Equal(t, 0, stats.Entries)
	assert.Equal(t, int64(0), stats.CurrentSize)

	_, ok := c.Get("key")
	assert.False(t, ok)
}

func TestBlobCache_DefaultMaxSizeAppliedForNonPositiveInput(t *testing.T) {
	t.Parallel()

	c := cache.New(0)

	assert.Equal(t, int64(cache.DefaultMaxSize), c.Stats().MaxSize)
}
