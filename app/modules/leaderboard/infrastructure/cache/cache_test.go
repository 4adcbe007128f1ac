package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestTTLCache(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)}
	c := New[string](WithClock[string](clock.Now))

	c.Set("pga_leaderboard", "masters", 10*time.Minute)
	v, ok := c.Get("pga_leaderboard")
	assert.True(t, ok)
	assert.Equal(t, "masters", v)

	clock.Advance(9 * time.Minute)
	_, ok = c.Get("pga_leaderboard")
	assert.True(t, ok)

	clock.Advance(time.Minute)
	_, ok = c.Get("pga_leaderboard")
	assert.False(t, ok, "entry expires exactly at its ttl")
	assert.Equal(t, 0, c.Len())
}

func TestTTLCacheNonPositiveTTL(t *testing.T) {
	c := New[int]()
	c.Set("a", 1, time.Minute)
	c.Set("a", 2, 0)

	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestTTLCacheDeleteAndPurge(t *testing.T) {
	c := New[int]()
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)
	c.Set("c", 3, time.Minute)

	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())

	c.Purge()
	assert.Equal(t, 0, c.Len())
}
