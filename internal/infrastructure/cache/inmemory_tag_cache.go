package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// InMemoryTagCache implements TagCache with process-local maps.
// Suitable for single-instance deployments and testing.
// WARNING: in-memory entries are not shared across process instances,
// so invalidation in one instance does not evict entries in another.
type InMemoryTagCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
	tags    map[string]map[string]struct{} // tag -> set of keys
}

// NewInMemoryTagCache creates an empty in-memory tag cache
func NewInMemoryTagCache() *InMemoryTagCache {
	return &InMemoryTagCache{
		entries: make(map[string][]byte),
		tags:    make(map[string]map[string]struct{}),
	}
}

// GetJSON loads the entry at key into dest
func (c *InMemoryTagCache) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	c.mu.RLock()
	data, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode cache entry: %w", err)
	}
	return true, nil
}

// SetJSON stores value at key and records its tag memberships
func (c *InMemoryTagCache) SetJSON(_ context.Context, key string, value any, tags ...string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = data
	for _, tag := range tags {
		keys, ok := c.tags[tag]
		if !ok {
			keys = make(map[string]struct{})
			c.tags[tag] = keys
		}
		keys[key] = struct{}{}
	}
	return nil
}

// Invalidate removes every entry associated with any of the tags
func (c *InMemoryTagCache) Invalidate(_ context.Context, tags ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, tag := range tags {
		for key := range c.tags[tag] {
			delete(c.entries, key)
		}
		delete(c.tags, tag)
	}
	return nil
}

// Close is a no-op for the in-memory cache
func (c *InMemoryTagCache) Close() error {
	return nil
}

// Len returns the number of live entries (for testing)
func (c *InMemoryTagCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

var _ TagCache = (*InMemoryTagCache)(nil)
