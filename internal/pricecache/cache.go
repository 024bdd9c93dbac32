// Package pricecache memoizes crop-price lookups keyed by normalized
// (location, crop) pairs. Entries live for a fixed TTL and are replaced
// wholesale on refresh; nothing is ever merged.
package pricecache

import (
	"strings"
	"sync"
	"time"

	"agri-assist-api/internal/model"
)

// Key normalizes a (location, crop) pair into a cache key. Both parts are
// trimmed and case-folded so "Hubli / Wheat" and "hubli/wheat" share one
// entry.
func Key(location string, cropName string) string {
	return strings.ToLower(strings.TrimSpace(location)) + "|" + strings.ToLower(strings.TrimSpace(cropName))
}

type entry struct {
	quote    model.PriceQuote
	storedAt time.Time
}

type Cache struct {
	ttl     time.Duration
	now     func() time.Time
	mu      sync.RWMutex
	entries map[string]entry
}

func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: map[string]entry{},
	}
}

// SetClock overrides the time source. Intended for tests.
func (c *Cache) SetClock(now func() time.Time) {
	c.now = now
}

// Get returns the stored quote when the entry exists and is younger than
// the TTL. An entry aged exactly TTL is stale.
func (c *Cache) Get(key string) (model.PriceQuote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		return model.PriceQuote{}, false
	}

	if c.now().Sub(e.storedAt) >= c.ttl {
		return model.PriceQuote{}, false
	}

	return e.quote, true
}

// Put stores a quote with a fresh timestamp, replacing any previous entry.
func (c *Cache) Put(key string, quote model.PriceQuote) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{quote: quote, storedAt: c.now()}
}

// Invalidate drops an entry immediately, regardless of age.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// Len reports the number of entries, stale ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
