package cache

import (
	"context"
	"sync"
	"time"

	"tour-route-service/internal/domain"
)

// MemoryRouteCache is a process-local RouteCache: a mutex-guarded map with
// per-entry TTL and a bound on total entries. When the bound is exceeded the
// oldest entries are evicted first.
//
// Safe for concurrent use. The clock is injectable for expiry tests.
type MemoryRouteCache struct {
	mu         sync.Mutex
	entries    map[string]*memoryEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

type memoryEntry struct {
	tourID    int64
	result    domain.RouteResult
	createdAt time.Time
}

func NewMemoryRouteCache(ttl time.Duration, maxEntries int) *MemoryRouteCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	return &MemoryRouteCache{
		entries:    make(map[string]*memoryEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns a copy of the cached result, or nil on a miss. Entries past
// the TTL are deleted on access.
func (c *MemoryRouteCache) Get(ctx context.Context, tourID int64, cons domain.Constraints) (*domain.RouteResult, error) {
	key := routeKey(tourID, cons)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	if c.now().Sub(e.createdAt) > c.ttl {
		delete(c.entries, key)
		return nil, nil
	}

	out := e.result
	return &out, nil
}

func (c *MemoryRouteCache) Set(ctx context.Context, tourID int64, cons domain.Constraints, result *domain.RouteResult) error {
	if result == nil {
		return nil
	}
	key := routeKey(tourID, cons)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &memoryEntry{
		tourID:    tourID,
		result:    *result,
		createdAt: c.now(),
	}

	for len(c.entries) > c.maxEntries {
		c.evictOldestLocked()
	}
	return nil
}

// Invalidate drops every entry for the tour regardless of constraints hash.
func (c *MemoryRouteCache) Invalidate(ctx context.Context, tourID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		if e.tourID == tourID {
			delete(c.entries, key)
		}
	}
	return nil
}

func (c *MemoryRouteCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*memoryEntry)
	return nil
}

func (c *MemoryRouteCache) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	for key, e := range c.entries {
		if oldestKey == "" || e.createdAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = e.createdAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
