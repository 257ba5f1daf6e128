package vetting

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultAgeCacheTTL is how long a lookup result, successful or not, is reused.
const DefaultAgeCacheTTL = 24 * time.Hour

type ageEntry struct {
	ageDays   *int
	fetchedAt time.Time
}

// AgeCache memoizes domain-age lookups per base domain. Failed lookups are
// stored as nil and served like any other entry until they go stale.
// Entries are never evicted, only refreshed.
type AgeCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]ageEntry

	group singleflight.Group
}

func NewAgeCache(ttl time.Duration) *AgeCache {
	if ttl <= 0 {
		ttl = DefaultAgeCacheTTL
	}
	return &AgeCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]ageEntry),
	}
}

// Get returns the cached value for key and whether a fresh entry exists.
func (c *AgeCache) Get(key string) (*int, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.now().Sub(e.fetchedAt) >= c.ttl {
		return nil, false
	}
	return e.ageDays, true
}

func (c *AgeCache) Set(key string, ageDays *int) {
	c.mu.Lock()
	c.entries[key] = ageEntry{ageDays: ageDays, fetchedAt: c.now()}
	c.mu.Unlock()
}

func (c *AgeCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// GetOrFetch returns the fresh cached value for key, or runs fetch and
// stores its result. Concurrent misses for one key share a single fetch.
//
// fetch runs on a context that ignores ctx cancellation, so a caller that
// gives up does not abort a lookup other callers are waiting on; that caller
// just gets nil back.
func (c *AgeCache) GetOrFetch(ctx context.Context, key string, fetch func(context.Context) *int) *int {
	if v, ok := c.Get(key); ok {
		return v
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		v := fetch(fetchCtx)
		c.Set(key, v)
		return v, nil
	})

	select {
	case <-ctx.Done():
		return nil
	case res := <-ch:
		v, _ := res.Val.(*int)
		return v
	}
}
