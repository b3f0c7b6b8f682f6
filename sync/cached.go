package sync

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cachedValue is a cached read with its expiry.
type cachedValue[V any] struct {
	value     V
	expiresAt time.Time
}

// CachedReader is a BatchReader with an LRU cache in front of it. Only keys
// that were found are cached; misses and errors always go to the reader.
type CachedReader[K comparable, V any] struct {
	reader *BatchReader[K, V]
	cache  *lru.Cache[K, cachedValue[V]]
	ttl    time.Duration
}

// NewCachedReader wraps reader with a cache of up to size entries. Entries
// expire after ttl; a ttl of 0 keeps them until they are evicted.
func NewCachedReader[K comparable, V any](reader *BatchReader[K, V], size int, ttl time.Duration) (*CachedReader[K, V], error) {
	cache, err := lru.New[K, cachedValue[V]](size)
	if err != nil {
		return nil, err
	}

	return &CachedReader[K, V]{
		reader: reader,
		cache:  cache,
		ttl:    ttl,
	}, nil
}

// Get returns the cached value for key, or reads it through the BatchReader.
func (c *CachedReader[K, V]) Get(ctx context.Context, key K) (V, error) {
	if entry, ok := c.cache.Get(key); ok {
		if c.ttl <= 0 || time.Now().Before(entry.expiresAt) {
			return entry.value, nil
		}
		c.cache.Remove(key)
	}

	value, err := c.reader.Get(ctx, key)
	if err != nil {
		return value, err
	}

	entry := cachedValue[V]{value: value}
	if c.ttl > 0 {
		entry.expiresAt = time.Now().Add(c.ttl)
	}
	c.cache.Add(key, entry)

	return value, nil
}

// Invalidate drops key from the cache, e.g. after it has been written.
func (c *CachedReader[K, V]) Invalidate(key K) {
	c.cache.Remove(key)
}

// Len returns the number of cached entries, including expired ones that have
// not been looked up since.
func (c *CachedReader[K, V]) Len() int {
	return c.cache.Len()
}

// Close closes the underlying BatchReader.
func (c *CachedReader[K, V]) Close() {
	c.reader.Close()
}
