package cache

import (
	"container/list"
	"sync"
	"time"
)

const (
	// DefaultMaxEntries bounds the cache when no explicit size is configured.
	DefaultMaxEntries = 1024

	// DefaultSweepInterval controls how often expired entries are purged.
	DefaultSweepInterval = time.Minute
)

type entry struct {
	key       string
	value     any
	expiresAt time.Time
	elem      *list.Element
}

// TTLCache is a bounded in-process cache with per-entry TTL. When the cache is
// full the least recently inserted entry is evicted. Expired entries are
// removed lazily on read and by a fixed-interval background sweep.
type TTLCache struct {
	mu      sync.Mutex
	entries map[string]*entry
	order   *list.List // insertion order, front = oldest
	max     int
	now     func() time.Time
	done    chan struct{}
	once    sync.Once
}

// Option customises a TTLCache.
type Option func(*TTLCache)

// WithMaxEntries overrides the maximum number of cached entries.
func WithMaxEntries(n int) Option {
	return func(c *TTLCache) {
		if n > 0 {
			c.max = n
		}
	}
}

// WithClock overrides the time source, primarily for tests.
func WithClock(now func() time.Time) Option {
	return func(c *TTLCache) {
		if now != nil {
			c.now = now
		}
	}
}

// New constructs a TTLCache and starts its sweep loop.
func New(sweepInterval time.Duration, opts ...Option) *TTLCache {
	c := &TTLCache{
		entries: make(map[string]*entry),
		order:   list.New(),
		max:     DefaultMaxEntries,
		now:     time.Now,
		done:    make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}
	go c.sweepLoop(sweepInterval)

	return c
}

// Set stores a value under key for the given TTL, evicting the oldest entry
// when the cache is at capacity.
func (c *TTLCache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[key]; ok {
		existing.value = value
		existing.expiresAt = c.now().Add(ttl)
		return
	}

	for len(c.entries) >= c.max {
		oldest := c.order.Front()
		if oldest == nil {
			break
		}
		c.removeLocked(oldest.Value.(*entry))
	}

	e := &entry{key: key, value: value, expiresAt: c.now().Add(ttl)}
	e.elem = c.order.PushBack(e)
	c.entries[key] = e
}

// Get returns the cached value and whether it was present and unexpired.
func (c *TTLCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		c.removeLocked(e)
		return nil, false
	}
	return e.value, true
}

// Delete removes the given keys if present.
func (c *TTLCache) Delete(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		if e, ok := c.entries[key]; ok {
			c.removeLocked(e)
		}
	}
}

// Len reports the number of live entries, counting expired-but-unswept ones.
func (c *TTLCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stop terminates the sweep loop. The cache remains usable afterwards.
func (c *TTLCache) Stop() {
	c.once.Do(func() {
		close(c.done)
	})
}

// Sweep removes all expired entries immediately and reports how many were purged.
func (c *TTLCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for elem := c.order.Front(); elem != nil; {
		next := elem.Next()
		e := elem.Value.(*entry)
		if !now.Before(e.expiresAt) {
			c.removeLocked(e)
			removed++
		}
		elem = next
	}
	return removed
}

func (c *TTLCache) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Sweep()
		case <-c.done:
			return
		}
	}
}

func (c *TTLCache) removeLocked(e *entry) {
	delete(c.entries, e.key)
	if e.elem != nil {
		c.order.Remove(e.elem)
	}
}
