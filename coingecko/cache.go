package coingecko

import (
	"net/url"
	"sync"
	"time"
)

// entry is a cached payload with its expiry instant.
type entry struct {
	payload   []byte
	expiresAt time.Time
}

// Cache is an in-memory TTL cache of upstream payloads keyed by request signature.
//
// Entries are never deleted: an expired entry is simply overwritten by the
// next successful fetch of the same key. Cache is safe for concurrent use.
type Cache struct {
	now func() time.Time

	mu      sync.Mutex
	entries map[string]entry
}

// NewCache returns an empty cache. A nil now defaults to time.Now.
func NewCache(now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{now: now, entries: make(map[string]entry)}
}

// Get returns the payload stored for key if it has not expired yet.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, false
	}
	return e.payload, true
}

// Put stores payload for key until now+ttl, replacing any previous entry.
func (c *Cache) Put(key string, payload []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{payload: payload, expiresAt: c.now().Add(ttl)}
}

// Len returns the number of entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// cacheKey returns the request signature of an endpoint and its parameters.
// Parameters are encoded sorted by key so the signature does not depend on
// the order they were set in.
func cacheKey(endpoint string, params url.Values) string {
	if len(params) == 0 {
		return endpoint
	}
	return endpoint + "?" + params.Encode()
}
