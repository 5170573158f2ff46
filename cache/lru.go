package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// LRUCache is an in-memory cache bounded by entry count and entry age.
//
// Lookup is a map from key to recency-list element; the list front is
// the most-recently-used end. Every mutation (insert, promotion,
// eviction, expiry removal) happens under one mutex so the access order
// stays globally consistent. Expiry is checked lazily at access time;
// there is no background sweeper.
type LRUCache struct {
	mu      sync.Mutex
	policy  Policy
	entries map[string]*list.Element
	order   *list.List // front = most recently used
	stats   Stats
	now     func() time.Time
}

type lruEntry struct {
	key       string
	value     []byte
	createdAt time.Time
}

// NewLRUCache creates a new LRU cache with the given policy.
func NewLRUCache(policy Policy) *LRUCache {
	return &LRUCache{
		policy:  policy,
		entries: make(map[string]*list.Element),
		order:   list.New(),
		now:     time.Now,
	}
}

// Get retrieves a value and promotes it to most-recently-used.
// Returns (nil, false) on miss; an expired entry is removed and
// reported as a miss even if it was the most-recently-used entry.
func (c *LRUCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		return nil, false
	}

	ent := elem.Value.(*lruEntry)
	if c.expiredLocked(ent) {
		c.removeLocked(elem)
		c.stats.Expirations++
		c.stats.Misses++
		return nil, false
	}

	c.order.MoveToFront(elem)
	c.stats.Hits++
	return ent.value, true
}

// Put inserts or overwrites the entry and promotes it. Overwriting
// refreshes the creation timestamp, so a re-Put behaves like a fresh
// insert for both expiry and eviction purposes. The entry just inserted
// is never the one evicted.
func (c *LRUCache) Put(_ context.Context, key string, value []byte) {
	if !c.policy.Enabled() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		ent := elem.Value.(*lruEntry)
		ent.value = value
		ent.createdAt = c.now()
		c.order.MoveToFront(elem)
		return
	}

	elem := c.order.PushFront(&lruEntry{
		key:       key,
		value:     value,
		createdAt: c.now(),
	})
	c.entries[key] = elem

	for c.order.Len() > c.policy.MaxEntries {
		if back := c.order.Back(); back != nil {
			c.removeLocked(back)
			c.stats.Evictions++
		}
	}
}

// Invalidate removes the entry for key. No-op if absent.
func (c *LRUCache) Invalidate(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.removeLocked(elem)
	}
}

// ClearExpired removes every entry older than the TTL and returns the
// number removed.
func (c *LRUCache) ClearExpired(_ context.Context) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for elem := c.order.Back(); elem != nil; {
		prev := elem.Prev()
		if c.expiredLocked(elem.Value.(*lruEntry)) {
			c.removeLocked(elem)
			c.stats.Expirations++
			removed++
		}
		elem = prev
	}
	return removed
}

// Len returns the number of resident entries, including any that have
// expired but not yet been observed.
func (c *LRUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns a snapshot of the cache counters.
func (c *LRUCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Entries = c.order.Len()
	return s
}

// Policy returns the cache policy.
func (c *LRUCache) Policy() Policy {
	return c.policy
}

func (c *LRUCache) expiredLocked(ent *lruEntry) bool {
	return c.now().Sub(ent.createdAt) > c.policy.TTL
}

func (c *LRUCache) removeLocked(elem *list.Element) {
	c.order.Remove(elem)
	delete(c.entries, elem.Value.(*lruEntry).key)
}

// Ensure LRUCache implements Cache
var _ Cache = (*LRUCache)(nil)
