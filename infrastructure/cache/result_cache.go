// Package cache provides the in-memory result cache used by the
// visualization pipeline. Entries are evicted lazily on read, by LRU
// pressure on write, and by a periodic background sweep.
package cache

import (
	"container/list"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ResultCache is a thread-safe TTL + LRU key-value cache for computed
// graphs and ego-query results. It is not a correctness mechanism: an
// in-place edit of source data that does not change a cache key is served
// stale until TTL expiry.
type ResultCache struct {
	mu       sync.RWMutex
	items    map[string]*cacheItem
	lruList  *list.List
	maxItems int
	now      func() time.Time

	hits      int64
	misses    int64
	evictions int64

	stopCh   chan struct{}
	stopOnce sync.Once

	logger *zap.Logger
}

type cacheItem struct {
	key        string
	value      any
	tags       []string
	expiry     time.Time
	lruElement *list.Element
}

// Option configures a ResultCache.
type Option func(*ResultCache)

// WithClock overrides the cache's time source. Used by tests to simulate
// TTL expiry without sleeping.
func WithClock(now func() time.Time) Option {
	return func(c *ResultCache) {
		c.now = now
	}
}

// NewResultCache creates a cache bounded to maxItems entries.
func NewResultCache(maxItems int, logger *zap.Logger, opts ...Option) *ResultCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &ResultCache{
		items:    make(map[string]*cacheItem),
		lruList:  list.New(),
		maxItems: maxItems,
		now:      time.Now,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get retrieves a value. Misses, expired entries and corrupted entries are
// all reported identically as absence.
func (c *ResultCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, exists := c.items[key]
	if !exists {
		c.misses++
		return nil, false
	}
	if c.now().After(item.expiry) {
		c.removeItem(item)
		c.misses++
		return nil, false
	}
	c.lruList.MoveToFront(item.lruElement)
	c.hits++
	return item.value, true
}

// Set stores a value with the given TTL and optional invalidation tags.
// When the cache is full the least recently used entry is evicted.
func (c *ResultCache) Set(key string, value any, ttl time.Duration, tags ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, exists := c.items[key]; exists {
		c.removeItem(existing)
	}

	for c.maxItems > 0 && len(c.items) >= c.maxItems && c.lruList.Len() > 0 {
		oldest := c.lruList.Back()
		if oldest == nil {
			break
		}
		c.removeItem(oldest.Value.(*cacheItem))
		c.evictions++
	}

	item := &cacheItem{
		key:    key,
		value:  value,
		tags:   tags,
		expiry: c.now().Add(ttl),
	}
	item.lruElement = c.lruList.PushFront(item)
	c.items[key] = item
}

// Delete removes a single entry.
func (c *ResultCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if item, exists := c.items[key]; exists {
		c.removeItem(item)
	}
}

// InvalidateTag removes every entry carrying the given tag and returns the
// number removed.
func (c *ResultCache) InvalidateTag(tag string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	toDelete := make([]*cacheItem, 0)
	for _, item := range c.items {
		for _, t := range item.tags {
			if t == tag {
				toDelete = append(toDelete, item)
				break
			}
		}
	}
	for _, item := range toDelete {
		c.removeItem(item)
	}
	if len(toDelete) > 0 {
		c.logger.Debug("invalidated cache entries by tag",
			zap.String("tag", tag),
			zap.Int("count", len(toDelete)),
		)
	}
	return len(toDelete)
}

// Clear removes all entries.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*cacheItem)
	c.lruList.Init()
}

// removeItem must be called with the lock held.
func (c *ResultCache) removeItem(item *cacheItem) {
	if item.lruElement != nil {
		c.lruList.Remove(item.lruElement)
	}
	delete(c.items, item.key)
}

// StartSweep launches a background goroutine that removes expired entries
// at the given interval. Stop terminates it.
func (c *ResultCache) StartSweep(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.sweepExpired()
			case <-c.stopCh:
				return
			}
		}
	}()
}

// Stop terminates the sweep goroutine. Safe to call more than once.
func (c *ResultCache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
}

func (c *ResultCache) sweepExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	expired := make([]*cacheItem, 0)
	for _, item := range c.items {
		if now.After(item.expiry) {
			expired = append(expired, item)
		}
	}
	for _, item := range expired {
		c.removeItem(item)
	}
	if len(expired) > 0 {
		c.logger.Debug("swept expired cache entries", zap.Int("count", len(expired)))
	}
}

// Stats holds cache counters since creation.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Items     int
	HitRate   float64
}

// GetStats returns a snapshot of the cache counters.
func (c *ResultCache) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	hitRate := float64(0)
	if total := c.hits + c.misses; total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Items:     len(c.items),
		HitRate:   hitRate,
	}
}
