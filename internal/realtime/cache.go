package realtime

import (
	"sync"
	"time"

	"github.com/wonny/krxusd/pkg/logger"
)

// QuoteCache is an in-memory cache for live converted quotes
// ⭐ SSOT: 실시간 시세 캐싱은 이 구조체에서만
type QuoteCache struct {
	mu     sync.RWMutex
	quotes map[string]*QuoteTick
	ttl    time.Duration
	logger *logger.Logger
}

// NewQuoteCache creates a new quote cache
func NewQuoteCache(ttl time.Duration, log *logger.Logger) *QuoteCache {
	return &QuoteCache{
		quotes: make(map[string]*QuoteTick),
		ttl:    ttl,
		logger: log,
	}
}

// Update stores a tick. Older data than what is cached is rejected.
func (c *QuoteCache) Update(tick *QuoteTick) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.quotes[tick.Code]; ok {
		if tick.Timestamp.Before(existing.Timestamp) {
			c.logger.WithFields(map[string]interface{}{
				"code":     tick.Code,
				"new_time": tick.Timestamp,
				"old_time": existing.Timestamp,
			}).Debug("Rejected older quote data")
			return false
		}
	}

	tick.IsStale = time.Since(tick.Timestamp) > c.ttl
	c.quotes[tick.Code] = tick
	return true
}

// snapshot copies a cached tick with staleness recomputed against now.
// Callers get their own copy; the cached tick is never written under RLock.
func (c *QuoteCache) snapshot(tick *QuoteTick, now time.Time) *QuoteTick {
	out := *tick
	out.IsStale = now.Sub(tick.Timestamp) > c.ttl
	return &out
}

// Get retrieves one cached tick
func (c *QuoteCache) Get(code string) (*QuoteTick, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tick, ok := c.quotes[code]
	if !ok {
		return nil, false
	}
	return c.snapshot(tick, time.Now()), true
}

// GetMany retrieves cached ticks for the given codes, skipping misses
func (c *QuoteCache) GetMany(codes []string) map[string]*QuoteTick {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := time.Now()
	result := make(map[string]*QuoteTick, len(codes))
	for _, code := range codes {
		if tick, ok := c.quotes[code]; ok {
			result[code] = c.snapshot(tick, now)
		}
	}
	return result
}

// Delete removes a tick from the cache
func (c *QuoteCache) Delete(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.quotes, code)
}

// Len returns the number of cached ticks
func (c *QuoteCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.quotes)
}

// CleanStale removes ticks older than the TTL
func (c *QuoteCache) CleanStale() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	count := 0
	for code, tick := range c.quotes {
		if now.Sub(tick.Timestamp) > c.ttl {
			delete(c.quotes, code)
			count++
		}
	}

	if count > 0 {
		c.logger.WithField("count", count).Info("Cleaned stale quotes from cache")
	}
	return count
}
