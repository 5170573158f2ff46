package cache

import (
	"context"
	"fmt"
	"testing"
	"time"
)

// BenchmarkLRUCache_Get_Hit measures cache hit performance.
func BenchmarkLRUCache_Get_Hit(b *testing.B) {
	c := NewLRUCache(DefaultPolicy())
	ctx := context.Background()

	// Pre-populate
	c.Put(ctx, "key", []byte("value"))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Get(ctx, "key")
	}
}

// BenchmarkLRUCache_Get_Miss measures cache miss performance.
func BenchmarkLRUCache_Get_Miss(b *testing.B) {
	c := NewLRUCache(DefaultPolicy())
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Get(ctx, "missing")
	}
}

// BenchmarkLRUCache_Put measures write performance with eviction churn.
func BenchmarkLRUCache_Put(b *testing.B) {
	c := NewLRUCache(DefaultPolicy())
	ctx := context.Background()
	value := []byte("test value")

	keys := make([]string, 1024)
	for i := range keys {
		keys[i] = fmt.Sprintf("key-%d", i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Put(ctx, keys[i%len(keys)], value)
	}
}

// BenchmarkLRUCache_Put_SameKey measures overwrite performance.
func BenchmarkLRUCache_Put_SameKey(b *testing.B) {
	c := NewLRUCache(DefaultPolicy())
	ctx := context.Background()
	value := []byte("test value")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Put(ctx, "same-key", value)
	}
}

// BenchmarkLRUCache_Parallel measures contended mixed access.
func BenchmarkLRUCache_Parallel(b *testing.B) {
	c := NewLRUCache(Policy{MaxEntries: 100, TTL: time.Hour})
	ctx := context.Background()
	value := []byte("test value")

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			key := fmt.Sprintf("key-%d", i%128)
			if i%4 == 0 {
				c.Put(ctx, key, value)
			} else {
				_, _ = c.Get(ctx, key)
			}
			i++
		}
	})
}

// BenchmarkDefaultKeyer_Key measures fingerprint derivation over a
// realistic document size.
func BenchmarkDefaultKeyer_Key(b *testing.B) {
	k := NewDefaultKeyer()
	doc := make([]byte, 64*1024)
	params := map[string]any{"output_format": "markdown"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = k.Key("document-parse", doc, params)
	}
}
