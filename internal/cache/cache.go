// internal/cache/cache.go

package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// entry is one immutable cached value. Refreshes replace the whole
// entry; nothing mutates a stored entry in place.
type entry struct {
	value     interface{}
	expiresAt time.Time
}

// call tracks one in-flight fetch so concurrent lookups for the same
// key wait for it instead of duplicating the work.
type call struct {
	done  chan struct{}
	value interface{}
	err   error
}

// Cache is a process-wide TTL memoization layer for expensive fetches.
// Expired entries are evicted lazily on the next lookup; there is no
// background sweeper and no capacity bound, since the key space is
// limited to the topics and regions a caller selects.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	calls   map[string]*call
	now     func() time.Time
}

// New creates an empty cache
func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		calls:   make(map[string]*call),
		now:     time.Now,
	}
}

// Key builds an operation key from the full call signature
func Key(operation string, parts ...string) string {
	return operation + ":" + strings.Join(parts, ":")
}

// GetOrFetch returns the cached value for key if a live entry exists,
// otherwise runs fetch and caches its result for ttl. A failed fetch
// caches nothing, so the next lookup retries. Concurrent callers of
// the same key share a single fetch.
func (c *Cache) GetOrFetch(ctx context.Context, key string, ttl time.Duration, fetch func(context.Context) (interface{}, error)) (interface{}, error) {
	c.mu.Lock()

	if e, ok := c.entries[key]; ok {
		if c.now().Before(e.expiresAt) {
			c.mu.Unlock()
			return e.value, nil
		}
		delete(c.entries, key)
	}

	if inflight, ok := c.calls[key]; ok {
		c.mu.Unlock()
		select {
		case <-inflight.done:
			return inflight.value, inflight.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	current := &call{done: make(chan struct{})}
	c.calls[key] = current
	c.mu.Unlock()

	value, err := fetch(ctx)

	c.mu.Lock()
	delete(c.calls, key)
	if err == nil {
		c.entries[key] = entry{value: value, expiresAt: c.now().Add(ttl)}
	}
	c.mu.Unlock()

	current.value = value
	current.err = err
	close(current.done)

	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", key, err)
	}
	return value, nil
}

// Fetch is a typed wrapper around Cache.GetOrFetch
func Fetch[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	value, err := c.GetOrFetch(ctx, key, ttl, func(ctx context.Context) (interface{}, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return value.(T), nil
}

// Len reports the number of stored entries, live or expired
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
