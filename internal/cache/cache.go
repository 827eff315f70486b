// Package cache provides the in-memory lookup cache used by the vendor clients.
// It uses patrickmn/go-cache for TTL-based expiry so repeated household and
// reference-list lookups within one run hit the network once.
package cache

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/agentstation/rostersync/pkg/constants"
	"github.com/agentstation/rostersync/pkg/logging"
	"github.com/agentstation/rostersync/pkg/roster"
)

// Cache wraps go-cache with hit and miss counters.
type Cache struct {
	store  *gocache.Cache
	hits   int
	misses int
}

// New creates a new cache with the given TTL and cleanup interval.
// A non-positive ttl falls back to constants.CacheTTL.
func New(defaultTTL, cleanupInterval time.Duration) *Cache {
	if defaultTTL <= 0 {
		defaultTTL = constants.CacheTTL
	}
	if cleanupInterval <= 0 {
		cleanupInterval = constants.CacheCleanupInterval
	}
	return &Cache{
		store: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a value from the cache.
func (c *Cache) Get(key string) (any, bool) {
	v, ok := c.store.Get(key)
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return v, ok
}

// Set stores a value in the cache with default TTL.
func (c *Cache) Set(key string, value any) {
	c.store.Set(key, value, gocache.DefaultExpiration)
}

// SetWithTTL stores a value in the cache with custom TTL.
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) {
	c.store.Set(key, value, ttl)
}

// Delete removes a value from the cache.
func (c *Cache) Delete(key string) {
	c.store.Delete(key)
}

// Clear removes all items from the cache.
func (c *Cache) Clear() {
	c.store.Flush()
}

// ItemCount returns the number of items in the cache.
func (c *Cache) ItemCount() int {
	return c.store.ItemCount()
}

// Stats returns cache statistics.
type Stats struct {
	ItemCount int `json:"item_count"`
	Hits      int `json:"hits"`
	Misses    int `json:"misses"`
}

// GetStats returns current cache statistics.
func (c *Cache) GetStats() Stats {
	return Stats{
		ItemCount: c.store.ItemCount(),
		Hits:      c.hits,
		Misses:    c.misses,
	}
}

// Remember returns the cached value for key, or calls load and caches its
// result. Errors are never cached. A nil cache always calls load.
func Remember[T any](c *Cache, key string, load func() (T, error)) (T, error) {
	if c != nil {
		if v, ok := c.Get(key); ok {
			if typed, ok := v.(T); ok {
				return typed, nil
			}
		}
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	if c != nil {
		c.Set(key, v)
	}
	return v, nil
}

// Source decorates a roster.Source so each household is fetched once.
// Person pulls are never cached.
type Source struct {
	roster.Source
	cache *Cache
}

// NewSource wraps src with household caching.
func NewSource(src roster.Source, c *Cache) *Source {
	return &Source{Source: src, cache: c}
}

// Household returns the cached household or fetches it from the wrapped source.
func (s *Source) Household(ctx context.Context, id int64) (*roster.Household, error) {
	key := fmt.Sprintf("household:%d", id)
	return Remember(s.cache, key, func() (*roster.Household, error) {
		logging.FromContext(ctx).Debug().Int64("household_id", id).Msg("Household cache miss")
		return s.Source.Household(ctx, id)
	})
}
