package cache

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultTTL matches the web client's five minute response cache.
	DefaultTTL = 5 * time.Minute
	// DefaultSweepInterval is how often expired entries are purged in bulk.
	DefaultSweepInterval = 5 * time.Minute
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Cache is a TTL keyed store for API response bodies. Entries expire
// lazily on read and in bulk via the sweeper; there is no capacity
// bound beyond expiry.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	defaultTTL time.Duration

	// now is swappable for tests
	now func() time.Time
}

// New creates a cache with the given default TTL. A zero ttl uses DefaultTTL.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		entries:    make(map[string]entry),
		defaultTTL: ttl,
		now:        time.Now,
	}
}

// Set stores value under key. An optional ttl overrides the default.
func (c *Cache) Set(key string, value []byte, ttl ...time.Duration) {
	d := c.defaultTTL
	if len(ttl) > 0 && ttl[0] > 0 {
		d = ttl[0]
	}

	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(d)}
	c.mu.Unlock()
}

// Get returns the value for key if present and unexpired. Expired
// entries are treated as absent and removed.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a Set may have raced us.
		if cur, ok := c.entries[key]; ok && c.now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

// Has reports whether key is present and unexpired.
func (c *Cache) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Delete removes a single key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Clear drops every entry. Used as coarse invalidation after mutations.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// ClearExpired removes every expired entry.
func (c *Cache) ClearExpired() {
	now := c.now()

	c.mu.Lock()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// StartSweeper purges expired entries every interval until ctx is
// cancelled. A zero interval uses DefaultSweepInterval.
func (c *Cache) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.ClearExpired()
			}
		}
	}()
}
