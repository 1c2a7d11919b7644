package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/ports"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryCache is the in-process fallback used when REDIS_URL is empty.
type MemoryCache struct {
	mu    sync.Mutex
	rows  map[string]memoryEntry
	nowFn func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{rows: map[string]memoryEntry{}, nowFn: func() time.Time { return time.Now().UTC() }}
}

// lookup expects c.mu to be held.
func (c *MemoryCache) lookup(key string) (memoryEntry, bool) {
	e, ok := c.rows[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !e.expiresAt.IsZero() && !c.nowFn().Before(e.expiresAt) {
		delete(c.rows, key)
		return memoryEntry{}, false
	}
	return e, true
}

func (c *MemoryCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.lookup(key)
	if !ok {
		return "", ports.ErrCacheMiss
	}
	return e.value, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expiresAt = c.nowFn().Add(ttl)
	}
	c.rows[key] = e
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.rows, k)
	}
	return nil
}

func (c *MemoryCache) IncrWithTTL(_ context.Context, key string, ttl time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.lookup(key)
	var n int64
	if ok {
		n, _ = strconv.ParseInt(e.value, 10, 64)
	} else if ttl > 0 {
		e.expiresAt = c.nowFn().Add(ttl)
	}
	n++
	e.value = strconv.FormatInt(n, 10)
	c.rows[key] = e
	return n, nil
}
