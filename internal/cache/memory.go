package cache

import (
	"context"
	"sync"
	"time"
)

// entry holds a cached value and its absolute expiry.
type entry struct {
	value     string
	expiresAt time.Time
}

// MemoryCache is an in-process Cache implementation backed by a sync.Map.
// Expired entries are dropped lazily on read and swept periodically by a
// janitor goroutine to prevent unbounded memory growth.
type MemoryCache struct {
	entries sync.Map // map[string]entry
}

// NewMemoryCache creates a MemoryCache and starts its janitor goroutine.
// The janitor stops when ctx is canceled.
func NewMemoryCache(ctx context.Context, sweepInterval time.Duration) *MemoryCache {
	c := &MemoryCache{}
	go c.sweep(ctx, sweepInterval)
	return c
}

// Set stores value under key for the given TTL.
func (c *MemoryCache) Set(key, value string, ttl time.Duration) {
	c.entries.Store(key, entry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	})
}

// Get returns the value for key if present and not expired.
func (c *MemoryCache) Get(key string) (string, bool) {
	val, ok := c.entries.Load(key)
	if !ok {
		return "", false
	}

	e := val.(entry)
	if time.Now().After(e.expiresAt) {
		c.entries.Delete(key)
		return "", false
	}

	return e.value, true
}

// Delete removes key if present.
func (c *MemoryCache) Delete(key string) {
	c.entries.Delete(key)
}

// sweep periodically removes expired entries.
func (c *MemoryCache) sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now()
			c.entries.Range(func(key, val any) bool {
				if now.After(val.(entry).expiresAt) {
					c.entries.Delete(key)
				}
				return true
			})
		}
	}
}
