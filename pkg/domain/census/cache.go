package census

import (
	"sync"
	"time"

	"github.com/v6census/v6census/pkg/domain"
	"github.com/v6census/v6census/pkg/utils/maps"
	"github.com/v6census/v6census/pkg/utils/slices"
)

// CacheStats summarizes what the in-memory cache holds.
type CacheStats struct {
	Entries int
	Keys    []domain.Key

	// Oldest and Newest are fetch times of the cached snapshots.
	// Both are zero when the cache is empty.
	Oldest time.Time
	Newest time.Time
}

// Cache holds the current snapshot of each dataset in memory.
//
// It is safe for concurrent use. Expired snapshots stay in place until
// overwritten or dropped; Peek can still read them, so callers inspecting
// staleness decide against their own clock.
type Cache struct {
	mu      sync.RWMutex
	entries map[domain.Key]domain.Snapshot
}

func NewCache() *Cache {
	return &Cache{entries: map[domain.Key]domain.Snapshot{}}
}

// Get returns the snapshot for key unless it is expired at the given time.
func (c *Cache) Get(key domain.Key, at time.Time) (domain.Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap, ok := c.entries[key]
	if !ok || snap.Expired(at) {
		return domain.Snapshot{}, false
	}
	return snap, true
}

// Peek returns the snapshot for key even when it is expired.
func (c *Cache) Peek(key domain.Key) (domain.Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap, ok := c.entries[key]
	return snap, ok
}

func (c *Cache) Put(snap domain.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[snap.Key] = snap
}

// Drop removes keys from the cache and returns how many were actually held.
func (c *Cache) Drop(keys ...domain.Key) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := 0
	for _, key := range keys {
		if _, ok := c.entries[key]; ok {
			delete(c.entries, key)
			dropped++
		}
	}
	return dropped
}

// DropAll empties the cache and returns how many snapshots were held.
func (c *Cache) DropAll() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := len(c.entries)
	c.entries = map[domain.Key]domain.Snapshot{}
	return dropped
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Keys returns the cached keys, sorted.
func (c *Cache) Keys() []domain.Key {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Sorted(
		maps.KeysOf(c.entries),
		func(a, b domain.Key) bool { return a < b },
	)
}

// Stats summarizes the cache content.
func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := CacheStats{Entries: len(c.entries)}
	for _, snap := range c.entries {
		if stats.Oldest.IsZero() || snap.FetchedAt.Before(stats.Oldest) {
			stats.Oldest = snap.FetchedAt
		}
		if snap.FetchedAt.After(stats.Newest) {
			stats.Newest = snap.FetchedAt
		}
	}
	stats.Keys = slices.Sorted(
		maps.KeysOf(c.entries),
		func(a, b domain.Key) bool { return a < b },
	)
	return stats
}
