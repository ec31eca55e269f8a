package opengraph

import (
	"context"
	"sync"
)

// call is the shared handle for one in-flight fetch. Every caller for the
// same key waits on the same handle and observes the same resolved value.
type call struct {
	done chan struct{}
	data *Data
}

// Cache memoizes fetch results per URL and coalesces overlapping requests
// for the same URL into a single underlying fetch. A nil cached value means
// a confirmed failed fetch, kept so a failing endpoint is not hammered.
//
// Construct one per long-lived composition root and inject it; tests get a
// fresh instance per case.
type Cache struct {
	mu       sync.Mutex
	results  map[string]*Data
	inflight map[string]*call
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		results:  make(map[string]*Data),
		inflight: make(map[string]*call),
	}
}

// Get returns the cached result for key. The second return value reports
// whether an entry exists; a (nil, true) result is a cached failure.
func (c *Cache) Get(key string) (*Data, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.results[key]
	return data, ok
}

// Set stores a result for key, replacing any existing entry.
func (c *Cache) Set(key string, data *Data) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.results[key] = data
}

// Len returns the number of cached results.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.results)
}

// Do returns the cached result for key, or runs fn exactly once to produce
// it. Concurrent callers for the same key while fn is running attach to the
// same in-flight call instead of starting another fetch, so at most one
// fetch per key is ever outstanding.
//
// A caller whose context is canceled while waiting gets nil; the in-flight
// fetch itself is left to finish and populate the cache.
func (c *Cache) Do(ctx context.Context, key string, fn func(context.Context) *Data) *Data {
	c.mu.Lock()
	if data, ok := c.results[key]; ok {
		c.mu.Unlock()
		return data
	}
	if cl, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		select {
		case <-cl.done:
			return cl.data
		case <-ctx.Done():
			return nil
		}
	}

	cl := &call{done: make(chan struct{})}
	c.inflight[key] = cl
	c.mu.Unlock()

	cl.data = fn(ctx)

	c.mu.Lock()
	// Publish only while this call is still the registered one. Clear may
	// have dropped it, in which case the stale result is discarded rather
	// than resurrected into the fresh cache.
	if c.inflight[key] == cl {
		c.results[key] = cl.data
		delete(c.inflight, key)
	}
	c.mu.Unlock()

	close(cl.done)
	return cl.data
}

// Clear empties both the result cache and the in-flight map. A fetch issued
// after Clear always performs a fresh network call, and the eventual result
// of any orphaned in-flight fetch is discarded.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.results = make(map[string]*Data)
	c.inflight = make(map[string]*call)
}
