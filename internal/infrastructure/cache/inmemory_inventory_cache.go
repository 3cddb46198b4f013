package cache

import (
	"context"
	"sync"
	"time"

	"github.com/shopadmin/backend/internal/domain/inventory"
)

// InMemoryInventoryCache implements inventory.AvailabilityCache with a
// process-local map. Used in single-node deployments and tests where Redis
// is not available; entries expire lazily on read.
type InMemoryInventoryCache struct {
	mu      sync.RWMutex
	entries map[string]inMemoryEntry
}

type inMemoryEntry struct {
	info      inventory.InventoryInfo
	expiresAt time.Time
}

func (e inMemoryEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// NewInMemoryInventoryCache creates a new in-memory availability cache
func NewInMemoryInventoryCache() *InMemoryInventoryCache {
	return &InMemoryInventoryCache{
		entries: make(map[string]inMemoryEntry),
	}
}

// Get retrieves an availability payload. A miss or expired entry returns (nil, nil).
func (c *InMemoryInventoryCache) Get(_ context.Context, key string) (*inventory.InventoryInfo, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if entry.isExpired() {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, nil
	}

	info := entry.info
	return &info, nil
}

// Set stores an availability payload with the given TTL
func (c *InMemoryInventoryCache) Set(_ context.Context, key string, info *inventory.InventoryInfo, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = inMemoryEntry{
		info:      *info,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes the given keys
func (c *InMemoryInventoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

// Flush removes every entry
func (c *InMemoryInventoryCache) Flush(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]inMemoryEntry)
	return nil
}

var _ inventory.AvailabilityCache = (*InMemoryInventoryCache)(nil)
