package middlewares

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimiter enforces a fixed window per derived key. With a redis client
// the window is shared across replicas; without one (dev, tests) it falls
// back to per-process buckets. Redis errors also fall back rather than
// blocking logins.
type RateLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	limit   int
	rdb     *redis.Client
	clients map[string]*clientBucket
}

type clientBucket struct {
	count     int
	windowEnd time.Time
}

func NewRateLimiter(limit int, window time.Duration, rdb *redis.Client) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  window,
		rdb:     rdb,
		clients: make(map[string]*clientBucket),
	}
}

// Middleware returns a gin.HandlerFunc that enforces rate limit for a derived key

func (rl *RateLimiter) RateLimiterMiddleware(keyFn func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFn(c)

		if key == "" {
			// fallback to IP if key cannot be derived

			key = clientIP(c)
		}

		allowed, retryAfter := rl.take(c.Request.Context(), key)

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":    "rate_limited",
					"message": "Too many requests. Please try again shortly.",
				},
			})

			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) take(ctx context.Context, key string) (allowed bool, retryAfter int) {
	if rl.rdb != nil {
		if ok, retry, err := rl.takeRedis(ctx, key); err == nil {
			return ok, retry
		}
	}

	return rl.takeLocal(key)
}

// INCR + EXPIRE on first hit gives a fixed window shared across replicas.
func (rl *RateLimiter) takeRedis(ctx context.Context, key string) (bool, int, error) {
	rkey := "ratelimit:" + key

	count, err := rl.rdb.Incr(ctx, rkey).Result()

	if err != nil {
		return false, 0, err
	}

	if count == 1 {
		if err := rl.rdb.Expire(ctx, rkey, rl.window).Err(); err != nil {
			return false, 0, err
		}
	}

	if count > int64(rl.limit) {
		ttl, err := rl.rdb.TTL(ctx, rkey).Result()

		if err != nil || ttl < 0 {
			return false, int(rl.window.Seconds()), nil
		}

		return false, int(ttl.Seconds()), nil
	}

	return true, 0, nil
}

func (rl *RateLimiter) takeLocal(key string) (bool, int) {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.clients[key]

	if !ok || now.After(b.windowEnd) {
		rl.clients[key] = &clientBucket{
			count:     1,
			windowEnd: now.Add(rl.window),
		}

		return true, 0
	}

	if b.count >= rl.limit {
		retryAfter := int(time.Until(b.windowEnd).Seconds())

		if retryAfter < 0 {
			retryAfter = 0
		}

		return false, retryAfter
	}

	b.count++

	return true, 0
}

// helper functions

// for unauthenticated endpoints: rate limit by IP
func KeyByIP(c *gin.Context) string {
	return clientIP(c)
}

// For authenticated endpoints: rate limit by userID if available

func KeyByUserOrIP(c *gin.Context) string {
	id, ok := UserIDFromContext(c)

	if ok && id != "" {
		return "user:" + id
	}

	return clientIP(c)
}

func clientIP(c *gin.Context) string {
	// Gin's ClientIP respects X-Forwarded-For / X-Real-IP if configured.
	ip := c.ClientIP()

	host, _, err := net.SplitHostPort(ip)

	if err == nil && host != "" {
		return host
	}

	return ip
}
