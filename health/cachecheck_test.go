package health

import (
	"context"
	"testing"
	"time"

	"github.com/jonwraymond/docproc/cache"
)

func TestCacheChecker(t *testing.T) {
	c := cache.NewLRUCache(cache.Policy{MaxEntries: 10, TTL: time.Hour})
	ctx := context.Background()
	c.Put(ctx, "k1", []byte("v"))
	c.Put(ctx, "k2", []byte("v"))
	c.Get(ctx, "k1")
	c.Get(ctx, "absent")

	result := NewCacheChecker(c).Check(ctx)
	if result.Status != StatusHealthy {
		t.Fatalf("status = %v, want healthy", result.Status)
	}
	if result.Details["entries"] != 2 {
		t.Errorf("entries = %v, want 2", result.Details["entries"])
	}
	if result.Details["max_entries"] != 10 {
		t.Errorf("max_entries = %v, want 10", result.Details["max_entries"])
	}
	if rate, ok := result.Details["hit_rate"].(float64); !ok || rate != 0.5 {
		t.Errorf("hit_rate = %v, want 0.5", result.Details["hit_rate"])
	}
}

func TestCacheChecker_Disabled(t *testing.T) {
	tests := []struct {
		name string
		c    *cache.LRUCache
	}{
		{"nil cache", nil},
		{"disabled policy", cache.NewLRUCache(cache.DisabledPolicy())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewCacheChecker(tt.c).Check(context.Background())
			if result.Status != StatusHealthy {
				t.Errorf("status = %v, want healthy", result.Status)
			}
			if result.Message != "caching disabled" {
				t.Errorf("message = %q", result.Message)
			}
		})
	}
}

func TestCacheChecker_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := NewCacheChecker(cache.NewLRUCache(cache.DefaultPolicy())).Check(ctx)
	if result.Status != StatusUnhealthy {
		t.Errorf("status = %v, want unhealthy for cancelled context", result.Status)
	}
}
