package cache

import (
	"time"

	"go.uber.org/zap"
)

// LayeredCache reads memory first and falls back to disk, promoting disk hits
type LayeredCache struct {
	memory *MemoryCache
	disk   Cache
	logger *zap.Logger
}

// NewLayeredCache creates a memory cache in front of a disk cache at diskDir
func NewLayeredCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration, logger *zap.Logger) *LayeredCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LayeredCache{
		memory: NewMemoryCache(memoryTTL, 2*memoryTTL),
		disk:   NewDiskCache(diskDir, diskTTL),
		logger: logger,
	}
}

// Get checks memory, then disk
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, found := c.memory.Get(key); found {
		return val, true
	}

	val, found := c.disk.Get(key)
	if !found {
		return nil, false
	}
	_ = c.memory.Set(key, val, 0)
	return val, true
}

// Set stores value in both layers. Disk failures are only logged.
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := c.memory.Set(key, value, ttl); err != nil {
		return err
	}
	if err := c.disk.Set(key, value, ttl); err != nil {
		c.logger.Warn("disk cache write failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}

// Delete removes key from both layers
func (c *LayeredCache) Delete(key string) error {
	_ = c.memory.Delete(key)
	return c.disk.Delete(key)
}

// Clear empties both layers
func (c *LayeredCache) Clear() error {
	_ = c.memory.Clear()
	return c.disk.Clear()
}

// Stats returns the memory layer's lookup counters
func (c *LayeredCache) Stats() Stats {
	return c.memory.Stats()
}
