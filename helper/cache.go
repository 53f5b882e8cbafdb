package helper

import (
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const DefaultCacheExpiration = 10 * time.Minute

// Cache is a typed wrapper around an in-memory go-cache.
type Cache[V any] struct {
	name   string
	cache  *gocache.Cache
	logger *slog.Logger
}

// NewCache creates a cache whose entries expire after ttl. A non-positive ttl
// keeps entries until they are deleted or flushed.
func NewCache[V any](name string, ttl time.Duration, logger *slog.Logger) *Cache[V] {
	expiration := ttl
	cleanupInterval := 3 * ttl
	if ttl <= 0 {
		expiration = gocache.NoExpiration
		cleanupInterval = 0
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Cache[V]{
		name:   name,
		cache:  gocache.New(expiration, cleanupInterval),
		logger: logger,
	}
}

// Get returns the value stored under key.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zeroValue V

	value, found := c.cache.Get(key)
	if !found {
		return zeroValue, false
	}

	v, ok := value.(V)
	if !ok {
		c.logger.Error("Wrong type in cache", slog.String("cache", c.name), slog.String("key", key))
		return zeroValue, false
	}

	c.logger.Debug("Cache hit", slog.String("cache", c.name), slog.String("key", key))

	return v, true
}

// Set stores value under key with the default expiration.
func (c *Cache[V]) Set(key string, value V) {
	c.cache.Set(key, value, gocache.DefaultExpiration)
}

// Delete removes keys.
func (c *Cache[V]) Delete(keys ...string) {
	for _, key := range keys {
		c.cache.Delete(key)
	}
}

// Flush removes every entry.
func (c *Cache[V]) Flush() {
	c.cache.Flush()
}

// Len returns the number of entries, expired ones included until cleanup.
func (c *Cache[V]) Len() int {
	return c.cache.ItemCount()
}
