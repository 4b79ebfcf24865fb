package middleware

import (
	"hash/fnv"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/print-order-service/internal/domain/dto"
	"github.com/guttosm/print-order-service/internal/i18n"
)

const defaultNumShards = 16

// KeyFunc picks the identity a request is counted against. An empty key
// exempts the request.
type KeyFunc func(c *gin.Context) string

// ByClientIP counts requests per client address.
func ByClientIP(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// ByCaller counts requests per authenticated user, or per address for
// anonymous callers.
func ByCaller(c *gin.Context) string {
	if id := GetUserID(c); id != "" {
		return "user:" + id
	}
	return ByClientIP(c)
}

// BySession counts requests per order session, taken from the :id route
// parameter.
func BySession(c *gin.Context) string {
	if id := c.Param("id"); id != "" {
		return "session:" + id
	}
	return ""
}

// visitor is a fixed window of requests for one key.
type visitor struct {
	tokens    int
	lastReset time.Time
}

type rateLimiterShard struct {
	mu       sync.Mutex
	visitors map[string]*visitor
}

// ShardedRateLimiter is a fixed-window limiter whose visitors are spread
// across shards to reduce lock contention.
type ShardedRateLimiter struct {
	shards    []*rateLimiterShard
	numShards int
	rate      int
	window    time.Duration
	stopCh    chan struct{}
	stopOnce  sync.Once
}

// RateLimiter is the limiter type used by the router.
type RateLimiter = ShardedRateLimiter

// NewRateLimiter allows rate requests per window for each key.
func NewRateLimiter(rate int, window time.Duration) *ShardedRateLimiter {
	return NewShardedRateLimiter(rate, window, defaultNumShards)
}

// NewShardedRateLimiter is NewRateLimiter with a custom shard count.
func NewShardedRateLimiter(rate int, window time.Duration, numShards int) *ShardedRateLimiter {
	if numShards <= 0 {
		numShards = defaultNumShards
	}

	shards := make([]*rateLimiterShard, numShards)
	for i := range shards {
		shards[i] = &rateLimiterShard{visitors: make(map[string]*visitor)}
	}

	rl := &ShardedRateLimiter{
		shards:    shards,
		numShards: numShards,
		rate:      rate,
		window:    window,
		stopCh:    make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

func (rl *ShardedRateLimiter) getShard(key string) *rateLimiterShard {
	h := fnv.New32a()
	h.Write([]byte(key))
	return rl.shards[h.Sum32()%uint32(rl.numShards)]
}

// take spends one request of key's window. retryAfter is how long until
// the window resets.
func (rl *ShardedRateLimiter) take(key string, now time.Time) (allowed bool, remaining int, retryAfter time.Duration) {
	shard := rl.getShard(key)

	shard.mu.Lock()
	defer shard.mu.Unlock()

	v, exists := shard.visitors[key]
	if !exists || now.Sub(v.lastReset) > rl.window {
		shard.visitors[key] = &visitor{tokens: rl.rate - 1, lastReset: now}
		return true, rl.rate - 1, rl.window
	}

	retryAfter = v.lastReset.Add(rl.window).Sub(now)
	if v.tokens <= 0 {
		return false, 0, retryAfter
	}
	v.tokens--
	return true, v.tokens, retryAfter
}

// Limit counts requests against the key chosen by keyFn and answers 429
// once a key's window is spent.
func (rl *ShardedRateLimiter) Limit(keyFn KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFn(c)
		if key == "" {
			c.Next()
			return
		}

		allowed, remaining, retryAfter := rl.take(key, time.Now())
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.rate))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			message := i18n.GetTranslator().Translate(i18n.ErrKeyRateLimitExceeded, i18n.GetLocale(c))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewError(dto.ErrCodeRateLimit, message).WithRequestID(GetRequestID(c)))
			return
		}
		c.Next()
	}
}

// RateLimit limits requests per client address.
func (rl *ShardedRateLimiter) RateLimit() gin.HandlerFunc {
	return rl.Limit(ByClientIP)
}

// UserRateLimit limits requests per authenticated user, falling back to the
// client address.
func (rl *ShardedRateLimiter) UserRateLimit() gin.HandlerFunc {
	return rl.Limit(ByCaller)
}

// SessionRateLimit limits requests per order session.
func (rl *ShardedRateLimiter) SessionRateLimit() gin.HandlerFunc {
	return rl.Limit(BySession)
}

func (rl *ShardedRateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupExpired(time.Now())
		case <-rl.stopCh:
			return
		}
	}
}

// cleanupExpired forgets keys idle for two windows.
func (rl *ShardedRateLimiter) cleanupExpired(now time.Time) {
	threshold := rl.window * 2
	for _, shard := range rl.shards {
		shard.mu.Lock()
		for key, v := range shard.visitors {
			if now.Sub(v.lastReset) > threshold {
				delete(shard.visitors, key)
			}
		}
		shard.mu.Unlock()
	}
}

// Stop ends the cleanup loop.
func (rl *ShardedRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// Stats returns how many keys are tracked, in total and per shard.
func (rl *ShardedRateLimiter) Stats() (totalVisitors int, perShard []int) {
	perShard = make([]int, rl.numShards)
	for i, shard := range rl.shards {
		shard.mu.Lock()
		perShard[i] = len(shard.visitors)
		totalVisitors += perShard[i]
		shard.mu.Unlock()
	}
	return totalVisitors, perShard
}
