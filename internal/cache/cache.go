package cache

import (
	"sync"
	"time"

	"github.com/vaderkoll/smhi-dashboard/internal/smhi"
)

// PayloadCache is a concurrency-safe TTL cache for raw forecast payloads,
// keyed by coordinate. The shell owns it; the pipeline only sees the
// forecast.Cache interface.
type PayloadCache struct {
	mu   sync.Mutex
	data map[string]entry
	ttl  time.Duration

	hitCount  int
	missCount int

	// now is injectable for deterministic expiry tests.
	now func() time.Time
}

type entry struct {
	payload  *smhi.Payload
	storedAt time.Time
}

// New creates a PayloadCache. A ttl <= 0 means entries never expire.
func New(ttl time.Duration) *PayloadCache {
	return &PayloadCache{
		data: make(map[string]entry),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Get returns the cached payload for a key if present and fresh.
func (c *PayloadCache) Get(key string) (*smhi.Payload, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.data[key]
	if !ok {
		c.missCount++
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(e.storedAt) >= c.ttl {
		delete(c.data, key)
		c.missCount++
		return nil, false
	}

	c.hitCount++
	return e.payload, true
}

// Set stores a payload for a key, resetting its age.
func (c *PayloadCache) Set(key string, payload *smhi.Payload) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = entry{
		payload:  payload,
		storedAt: c.now(),
	}
}

// Invalidate drops the entry for a key. Backs the manual refresh action.
func (c *PayloadCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.data, key)
}

// Stats returns cache hit and miss counts.
func (c *PayloadCache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.hitCount, c.missCount
}
