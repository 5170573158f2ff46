package cache

import "time"

// Policy bounds the cache in entry count and entry age.
type Policy struct {
	// MaxEntries is the upper bound on resident entries. Zero or
	// negative disables the cache: every Put is dropped, every Get
	// misses.
	MaxEntries int

	// TTL is the freshness window. Entries older than TTL are treated
	// as absent. Zero or negative disables the cache.
	TTL time.Duration
}

// DefaultPolicy returns the default cache policy.
// MaxEntries: 100, TTL: 1 hour.
func DefaultPolicy() Policy {
	return Policy{
		MaxEntries: 100,
		TTL:        time.Hour,
	}
}

// DisabledPolicy returns a policy under which nothing is cached.
func DisabledPolicy() Policy {
	return Policy{}
}

// Enabled returns true if the policy admits any caching at all.
func (p Policy) Enabled() bool {
	return p.MaxEntries > 0 && p.TTL > 0
}
