// Package cache is the in-memory TTL store behind the feed helper.
package cache

import (
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

type entry[V any] struct {
	value   V
	expires time.Time
}

// TTLCache is a concurrent map whose entries expire.
type TTLCache[V any] struct {
	entries *xsync.MapOf[string, entry[V]]
	now     func() time.Time
}

// Option configures a TTLCache.
type Option[V any] func(*TTLCache[V])

// WithClock replaces time.Now.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(c *TTLCache[V]) { c.now = now }
}

func New[V any](opts ...Option[V]) *TTLCache[V] {
	c := &TTLCache[V]{
		entries: xsync.NewMapOf[string, entry[V]](),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value for key if it has not expired.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	e, ok := c.entries.Load(key)
	if !ok {
		var zero V
		return zero, false
	}
	if !c.now().Before(e.expires) {
		c.entries.Delete(key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key for ttl. A non-positive ttl stores nothing.
func (c *TTLCache[V]) Set(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		c.entries.Delete(key)
		return
	}
	c.entries.Store(key, entry[V]{value: value, expires: c.now().Add(ttl)})
}

func (c *TTLCache[V]) Delete(key string) {
	c.entries.Delete(key)
}

// Purge drops every entry.
func (c *TTLCache[V]) Purge() {
	c.entries.Clear()
}

// Len counts stored entries, expired ones included until they are read.
func (c *TTLCache[V]) Len() int {
	return c.entries.Size()
}
