package cache

import (
	"sync/atomic"
	"time"
)

// Stats counts lookups against a layered cache
type Stats struct {
	MemoryHits int64 `json:"memory_hits"`
	DiskHits   int64 `json:"disk_hits"`
	Misses     int64 `json:"misses"`
}

// LayeredCache checks memory first, then disk, promoting disk hits.
// A nil disk layer gives a memory-only cache.
type LayeredCache[V any] struct {
	memory Cache[V]
	disk   Cache[V]

	memoryHits atomic.Int64
	diskHits   atomic.Int64
	misses     atomic.Int64
}

// NewLayeredCache creates a memory cache over an optional disk cache.
// An empty diskDir disables the disk layer.
func NewLayeredCache[V any](memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredCache[V] {
	c := &LayeredCache[V]{
		memory: NewMemoryCache[V](memoryTTL, 10*time.Minute),
	}
	if diskDir != "" {
		c.disk = NewDiskCache[V](diskDir, diskTTL)
	}
	return c
}

// Get retrieves a value from the cache
func (c *LayeredCache[V]) Get(key string) (V, bool) {
	if val, found := c.memory.Get(key); found {
		c.memoryHits.Add(1)
		return val, true
	}

	if c.disk != nil {
		if val, found := c.disk.Get(key); found {
			c.diskHits.Add(1)
			_ = c.memory.Set(key, val, 0)
			return val, true
		}
	}

	c.misses.Add(1)
	var zero V
	return zero, false
}

// Set stores a value in every layer
func (c *LayeredCache[V]) Set(key string, value V, ttl time.Duration) error {
	if err := c.memory.Set(key, value, ttl); err != nil {
		return err
	}
	if c.disk != nil {
		return c.disk.Set(key, value, 0)
	}
	return nil
}

// Delete removes a value from every layer
func (c *LayeredCache[V]) Delete(key string) error {
	_ = c.memory.Delete(key)
	if c.disk != nil {
		return c.disk.Delete(key)
	}
	return nil
}

// Clear removes all values from every layer
func (c *LayeredCache[V]) Clear() error {
	_ = c.memory.Clear()
	if c.disk != nil {
		return c.disk.Clear()
	}
	return nil
}

// Stats returns lookup counters since creation
func (c *LayeredCache[V]) Stats() Stats {
	return Stats{
		MemoryHits: c.memoryHits.Load(),
		DiskHits:   c.diskHits.Load(),
		Misses:     c.misses.Load(),
	}
}
