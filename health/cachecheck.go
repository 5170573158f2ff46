package health

import (
	"context"
	"fmt"

	"github.com/jonwraymond/docproc/cache"
)

// CacheChecker reports the result cache's occupancy and hit rate.
type CacheChecker struct {
	cache *cache.LRUCache
}

// NewCacheChecker creates a checker over the given cache.
func NewCacheChecker(c *cache.LRUCache) *CacheChecker {
	return &CacheChecker{cache: c}
}

// Name identifies the checked component.
func (c *CacheChecker) Name() string {
	return "cache"
}

// Check reports cache statistics. A disabled or absent cache is
// healthy: the plugin still works, every call just goes remote.
func (c *CacheChecker) Check(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled", ctx.Err())
	default:
	}

	if c.cache == nil || !c.cache.Policy().Enabled() {
		return Healthy("caching disabled")
	}

	stats := c.cache.Stats()
	policy := c.cache.Policy()

	details := map[string]any{
		"entries":     stats.Entries,
		"max_entries": policy.MaxEntries,
		"ttl":         policy.TTL.String(),
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"evictions":   stats.Evictions,
		"expirations": stats.Expirations,
	}
	if lookups := stats.Hits + stats.Misses; lookups > 0 {
		details["hit_rate"] = float64(stats.Hits) / float64(lookups)
	}

	return Healthy(fmt.Sprintf("%d of %d entries in use", stats.Entries, policy.MaxEntries)).
		WithDetails(details)
}
