package progress

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedStore is a write-through LRU cache in front of another Store.
type CachedStore struct {
	next  Store
	cache *lru.Cache[string, State]
}

// NewCachedStore wraps next with a cache of size entries.
func NewCachedStore(next Store, size int) (*CachedStore, error) {
	c, err := lru.New[string, State](size)
	if err != nil {
		return nil, fmt.Errorf("create progress cache: %w", err)
	}
	return &CachedStore{next: next, cache: c}, nil
}

// Load serves from the cache, falling back to the wrapped store.
func (c *CachedStore) Load(ctx context.Context, key string) (State, bool) {
	if s, ok := c.cache.Get(key); ok {
		return s.Clone(), true
	}
	s, ok := c.next.Load(ctx, key)
	if ok {
		c.cache.Add(key, s.Clone())
	}
	return s, ok
}

// Save writes through and refreshes the cached copy.
func (c *CachedStore) Save(ctx context.Context, key string, s State) error {
	if err := c.next.Save(ctx, key, s); err != nil {
		c.cache.Remove(key)
		return err
	}
	c.cache.Add(key, s.Normalize())
	return nil
}

// Clear evicts key and clears it in the wrapped store.
func (c *CachedStore) Clear(ctx context.Context, key string) error {
	c.cache.Remove(key)
	return c.next.Clear(ctx, key)
}

// Purge forwards to the wrapped store when it supports purging and drops
// the whole cache, since it cannot tell which entries went stale.
func (c *CachedStore) Purge(ctx context.Context, maxAge time.Duration) (int, error) {
	p, ok := c.next.(Purger)
	if !ok {
		return 0, nil
	}
	n, err := p.Purge(ctx, maxAge)
	if n > 0 {
		c.cache.Purge()
	}
	return n, err
}

// Len returns the number of cached entries.
func (c *CachedStore) Len() int {
	return c.cache.Len()
}
