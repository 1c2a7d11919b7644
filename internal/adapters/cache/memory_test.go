package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/ports"
)

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.nowFn = func() time.Time { return now }
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if v, err := c.Get(ctx, "k"); err != nil || v != "v" {
		t.Fatalf("Get = %q, %v", v, err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ports.ErrCacheMiss) {
		t.Fatalf("expected cache miss after ttl, got %v", err)
	}
}

func TestMemoryCacheIncrWithTTL(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.nowFn = func() time.Time { return now }
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := c.IncrWithTTL(ctx, "rate", time.Hour)
		if err != nil || got != want {
			t.Fatalf("IncrWithTTL = %d, %v; want %d", got, err, want)
		}
	}
	now = now.Add(61 * time.Minute)
	got, _ := c.IncrWithTTL(ctx, "rate", time.Hour)
	if got != 1 {
		t.Fatalf("expected counter reset after window, got %d", got)
	}
}

func TestMemoryCacheDelete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	_ = c.Set(ctx, "a", "1", 0)
	_ = c.Set(ctx, "b", "2", 0)
	if err := c.Delete(ctx, "a", "b", "missing"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := c.Get(ctx, "a"); !errors.Is(err, ports.ErrCacheMiss) {
		t.Fatalf("expected miss for deleted key, got %v", err)
	}
}
