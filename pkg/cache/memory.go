package cache

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultMemorySize is the entry capacity used when a caller passes a
// non-positive size to [NewMemoryCache].
const DefaultMemorySize = 1024

// memEntry wraps stored bytes with the entry's own deadline.
type memEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCache is a size-bounded in-process cache. Eviction is LRU with a
// whole-cache TTL backstop; per-entry TTLs passed to Set tighten the
// deadline for that entry but never extend it past the backstop.
type MemoryCache struct {
	lru *expirable.LRU[string, memEntry]
}

// NewMemoryCache creates an in-memory cache holding at most size entries.
// A non-positive size falls back to [DefaultMemorySize]. maxTTL bounds the
// lifetime of every entry; 0 means entries only leave through LRU pressure
// or explicit deletes.
func NewMemoryCache(size int, maxTTL time.Duration) Cache {
	if size <= 0 {
		size = DefaultMemorySize
	}
	return &MemoryCache{lru: expirable.NewLRU[string, memEntry](size, nil, maxTTL)}
}

// Get retrieves a value, treating entries past their deadline as misses.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	entry, ok := c.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		c.lru.Remove(key)
		return nil, false, nil
	}
	return entry.data, true, nil
}

// Set stores a value. ttl <= 0 leaves the entry governed by the backstop.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := memEntry{data: data}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	c.lru.Add(key, entry)
	return nil
}

// Delete removes a value.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}

// DeletePrefix removes every entry whose key starts with prefix.
func (c *MemoryCache) DeletePrefix(ctx context.Context, prefix string) error {
	for _, key := range c.lru.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.lru.Remove(key)
		}
	}
	return nil
}

// Close does nothing for the in-process cache.
func (c *MemoryCache) Close() error { return nil }

// Ensure MemoryCache implements Cache.
var _ Cache = (*MemoryCache)(nil)
