package cache

import (
	"context"
	"errors"
	"strings"
)

// MaxKeyLength is the maximum allowed length for a cache key.
const MaxKeyLength = 512

// Sentinel errors for cache operations.
var (
	ErrNilCache   = errors.New("cache: cache is nil")
	ErrInvalidKey = errors.New("cache: key is invalid")
	ErrKeyTooLong = errors.New("cache: key exceeds max length")
)

// Cache is the interface for caching remote document-processing results.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Totality: no method may fail; a full cache is resolved by eviction,
//   never by rejection.
// - Freshness: Get must never return an entry older than the configured
//   TTL, regardless of its recency position.
type Cache interface {
	// Get retrieves a cached value and marks it most-recently-used.
	// Returns (nil, false) on miss or expiry.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Put inserts or overwrites the entry, stamps it with the current
	// time, and marks it most-recently-used, evicting the
	// least-recently-used entries as needed to stay within capacity.
	Put(ctx context.Context, key string, value []byte)

	// Invalidate removes a cached value. No-op on miss.
	Invalidate(ctx context.Context, key string)

	// ClearExpired removes all entries older than the TTL and returns
	// the number removed.
	ClearExpired(ctx context.Context) int

	// Len returns the number of resident entries, expired or not.
	Len() int
}

// Stats holds counters describing cache behavior since construction.
type Stats struct {
	Hits        uint64
	Misses      uint64
	Evictions   uint64
	Expirations uint64
	Entries     int
}

// ValidateKey checks if a key is valid for caching.
func ValidateKey(key string) error {
	if key == "" || strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	// Reject keys with newlines or carriage returns
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}
