package cache

import (
	"sync"
	"time"
)

type entry struct {
	v        any
	storedAt time.Time
	ttl      time.Duration
}

// TTLCache is a small in-process store for hot values shared between the
// price path and the whale analyzer. Entries at or past their TTL are treated
// as absent and dropped on read; a zero TTL never expires.
type TTLCache struct {
	mu  sync.Mutex
	m   map[string]entry
	now func() time.Time
}

func NewTTLCache() *TTLCache {
	return &TTLCache{m: make(map[string]entry), now: time.Now}
}

func (c *TTLCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.m[key]
	if !ok {
		return nil, false
	}
	if e.ttl > 0 && c.now().Sub(e.storedAt) >= e.ttl {
		delete(c.m, key)
		return nil, false
	}
	return e.v, true
}

func (c *TTLCache) Set(key string, v any, ttl time.Duration) {
	c.mu.Lock()
	c.m[key] = entry{v: v, storedAt: c.now(), ttl: ttl}
	c.mu.Unlock()
}
