package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache keeps serialized answers in process memory until their TTL
// lapses. Entries do not survive a restart.
type MemoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache returns a cache whose entries live for ttl unless Set
// overrides it; expired entries are swept every sweep interval.
func NewMemoryCache(ttl, sweep time.Duration) *MemoryCache {
	return &MemoryCache{store: gocache.New(ttl, sweep)}
}

func (c *MemoryCache) Get(key string) ([]byte, bool) {
	v, found := c.store.Get(key)
	if !found {
		return nil, false
	}
	data, ok := v.([]byte)
	return data, ok
}

// Set stores a private copy of value. A zero ttl means the cache default.
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	c.store.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

func (c *MemoryCache) Delete(key string) error {
	c.store.Delete(key)
	return nil
}

func (c *MemoryCache) Clear() error {
	c.store.Flush()
	return nil
}

// Len counts stored entries, expired ones included until the next sweep
func (c *MemoryCache) Len() int {
	return c.store.ItemCount()
}
