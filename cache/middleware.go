package cache

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// RemoteFunc is the function signature for a remote processing call.
// It is invoked only on a cache miss, outside the cache's lock.
type RemoteFunc func(ctx context.Context) ([]byte, error)

// Middleware wraps remote document-processing calls with caching.
//
// Concurrent misses on the same key are collapsed so a single remote
// call serves all waiters; distinct keys proceed in parallel. Errors
// from the remote call are never cached.
type Middleware struct {
	cache Cache
	group singleflight.Group
}

// NewMiddleware creates a new cache middleware over the given cache.
func NewMiddleware(c Cache) *Middleware {
	return &Middleware{cache: c}
}

// Do returns the cached result for key, or executes remote and caches
// the result on success. The second return value reports whether the
// result was served from cache or from a shared in-flight call.
func (m *Middleware) Do(ctx context.Context, key string, remote RemoteFunc) ([]byte, bool, error) {
	if m == nil || m.cache == nil {
		out, err := remote(ctx)
		return out, false, err
	}

	if err := ValidateKey(key); err != nil {
		// Unusable key - execute without caching
		out, err := remote(ctx)
		return out, false, err
	}

	if cached, ok := m.cache.Get(ctx, key); ok {
		return cached, true, nil
	}

	v, err, shared := m.group.Do(key, func() (any, error) {
		// Re-check under the flight: another caller may have populated
		// the cache between our miss and the flight starting.
		if cached, ok := m.cache.Get(ctx, key); ok {
			return cached, nil
		}

		result, err := remote(ctx)
		if err != nil {
			// Failed calls never populate the cache.
			return nil, err
		}

		m.cache.Put(ctx, key, result)
		return result, nil
	})
	if err != nil {
		return nil, false, err
	}

	return v.([]byte), shared, nil
}

// Invalidate removes the entry for key from the underlying cache.
func (m *Middleware) Invalidate(ctx context.Context, key string) {
	if m == nil || m.cache == nil {
		return
	}
	m.cache.Invalidate(ctx, key)
}
