package middleware

import (
	"context"  // Redis call deadline
	"net/http" // HTTP status codes
	"strconv"  // Retry-After header
	"sync"     // Guards the local limiter map
	"time"     // Windows

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"golang.org/x/time/rate"       // Token buckets for the in-process limiter
)

// Limiter decides whether one more request under key fits in the window
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) bool
}

// rateLimitScript increments a fixed-window counter and reports whether it
// is still within the limit
const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// RedisLimiter counts requests in Redis so the limit holds across instances
type RedisLimiter struct {
	client *redis.Client // Shared Redis client
	script *redis.Script // Fixed-window counter
}

// NewRedisLimiter returns nil when client is nil
func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	if client == nil {
		return nil
	}
	return &RedisLimiter{client: client, script: redis.NewScript(rateLimitScript)}
}

// Allow fails open when Redis is unreachable
func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) bool {
	if l == nil || l.client == nil || key == "" || limit <= 0 || window <= 0 {
		return true
	}
	ttl := window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}
	ctx, cancel := context.WithTimeout(ctx, 250*time.Millisecond) // Never hold a request on Redis
	defer cancel()
	allowed, err := l.script.Run(ctx, l.client, []string{"ratelimit:" + key}, ttl, limit).Int64()
	if err != nil {
		logrus.WithField("error", err.Error()).Warn("Rate limiter unavailable")
		return true
	}
	return allowed == 1
}

// LocalLimiter keeps one token bucket per key in process memory
type LocalLimiter struct {
	mu      sync.Mutex
	buckets map[string]*localBucket
	now     func() time.Time
}

type localBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLocalLimiter returns an empty LocalLimiter
func NewLocalLimiter() *LocalLimiter {
	return &LocalLimiter{buckets: map[string]*localBucket{}, now: time.Now}
}

// Allow refills limit tokens per window with a burst of limit
func (l *LocalLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) bool {
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		b = &localBucket{limiter: rate.NewLimiter(rate.Every(window/time.Duration(limit)), limit)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	l.sweep(now, window)
	return b.limiter.AllowN(now, 1)
}

// sweep drops buckets idle for more than ten windows
func (l *LocalLimiter) sweep(now time.Time, window time.Duration) {
	if len(l.buckets) < 1024 {
		return
	}
	for k, b := range l.buckets {
		if now.Sub(b.lastSeen) > 10*window {
			delete(l.buckets, k)
		}
	}
}

// RateLimit rejects callers that exceed limit requests per window in scope.
// The caller is the authenticated user when known, else the client IP.
func RateLimit(l Limiter, scope string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil || limit <= 0 {
			c.Next()
			return
		}
		key := scope + ":ip:" + c.ClientIP()
		if identity, ok := IdentityFrom(c); ok {
			key = scope + ":user:" + strconv.FormatUint(uint64(identity.UserID), 10)
		}
		if !l.Allow(c.Request.Context(), key, limit, window) {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"msg": "Too many requests, try again later"})
			return
		}
		c.Next()
	}
}
