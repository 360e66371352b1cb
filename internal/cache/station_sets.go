package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/bbernstein/normals/backend-go/internal/config"
	"github.com/bbernstein/normals/backend-go/internal/models"
	"github.com/hashicorp/golang-lru/v2"
)

// StationSetEntry wraps a parsed station set with its expiry
type StationSetEntry struct {
	Set       *models.StationSet
	ExpiresAt time.Time
}

// StationSetCache keeps recently scanned station sets in memory so warm
// invocations skip rereading the source files. Cached sets are shared and
// must not be modified by callers.
type StationSetCache struct {
	lru    *lru.Cache[string, *StationSetEntry]
	ttl    time.Duration
	clock  clock
	mu     sync.Mutex
	hits   uint64
	misses uint64
}

func NewStationSetCache(cfg *config.CacheConfig) (*StationSetCache, error) {
	if cfg == nil {
		cfg = config.GetCacheConfig()
	}

	lruCache, err := lru.New[string, *StationSetEntry](cfg.StationSetLRUSize)
	if err != nil {
		return nil, fmt.Errorf("creating LRU cache: %w", err)
	}

	return &StationSetCache{
		lru:   lruCache,
		ttl:   cfg.GetStationSetTTL(),
		clock: systemClock{},
	}, nil
}

func stationSetKey(location, prefix string) string {
	return fmt.Sprintf("%s|%s", prefix, location)
}

func (c *StationSetCache) Get(location, prefix string) (*models.StationSet, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := stationSetKey(location, prefix)
	if entry, ok := c.lru.Get(key); ok {
		if c.clock.Now().Before(entry.ExpiresAt) {
			c.hits++
			return entry.Set, true
		}
		// Entry expired, remove it
		c.lru.Remove(key)
	}
	c.misses++
	return nil, false
}

func (c *StationSetCache) Add(location, prefix string, set *models.StationSet) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Add(stationSetKey(location, prefix), &StationSetEntry{
		Set:       set,
		ExpiresAt: c.clock.Now().Add(c.ttl),
	})
}

// GetCacheStats returns statistics about cache hits and misses
func (c *StationSetCache) GetCacheStats() map[string]uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return map[string]uint64{
		"lru_hits":   c.hits,
		"lru_misses": c.misses,
	}
}

// Clear removes all entries from the LRU cache
func (c *StationSetCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}
