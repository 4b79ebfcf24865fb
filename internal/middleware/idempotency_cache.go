package middleware

import (
	"sync"
	"time"
)

// DefaultIdempotencyCapacity bounds how many responses are kept for replay.
const DefaultIdempotencyCapacity = 10000

// idempotencyCache keeps successful responses for replay until they expire.
// When full, the oldest response is dropped.
type idempotencyCache struct {
	mu       sync.RWMutex
	items    map[string]*cachedResponse
	ttl      time.Duration
	capacity int
	stopCh   chan struct{}
	stopOnce sync.Once
}

func newIdempotencyCache(ttl time.Duration, capacity int) *idempotencyCache {
	if capacity <= 0 {
		capacity = DefaultIdempotencyCapacity
	}
	c := &idempotencyCache{
		items:    make(map[string]*cachedResponse),
		ttl:      ttl,
		capacity: capacity,
		stopCh:   make(chan struct{}),
	}
	go c.startCleanup()
	return c
}

// Get returns the response stored under key unless it expired.
func (c *idempotencyCache) Get(key string) (*cachedResponse, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	resp, ok := c.items[key]
	if !ok || time.Since(resp.Timestamp) > c.ttl {
		return nil, false
	}
	return resp, true
}

// Set stores resp under key.
func (c *idempotencyCache) Set(key string, resp *cachedResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && len(c.items) >= c.capacity {
		c.evictLocked()
	}
	resp.Timestamp = time.Now()
	c.items[key] = resp
}

// Len returns the number of stored responses, expired ones included.
func (c *idempotencyCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Stop ends the cleanup loop.
func (c *idempotencyCache) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}

// evictLocked drops expired responses, or the oldest one when none expired.
func (c *idempotencyCache) evictLocked() {
	if c.removeExpiredLocked(time.Now()) > 0 {
		return
	}
	var oldestKey string
	var oldest time.Time
	for key, resp := range c.items {
		if oldestKey == "" || resp.Timestamp.Before(oldest) {
			oldestKey, oldest = key, resp.Timestamp
		}
	}
	delete(c.items, oldestKey)
}

func (c *idempotencyCache) startCleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stopCh:
			return
		}
	}
}

func (c *idempotencyCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeExpiredLocked(time.Now())
}

func (c *idempotencyCache) removeExpiredLocked(now time.Time) int {
	removed := 0
	for key, resp := range c.items {
		if now.Sub(resp.Timestamp) > c.ttl {
			delete(c.items, key)
			removed++
		}
	}
	return removed
}
