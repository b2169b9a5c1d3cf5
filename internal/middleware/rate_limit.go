package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests per session in the window
	Limit int
	// IPLimit, when positive, also caps requests per client IP so that
	// dropping the session cookie does not reset the budget
	IPLimit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// RateLimiter counts requests per visitor session, and optionally per client
// IP, in Redis
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
	now    func() time.Time
}

// NewRateLimiter creates a new rate limiter instance. A nil client disables
// limiting.
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		config: config,
		now:    time.Now,
	}
}

type limitResult struct {
	checked   bool
	allowed   bool
	limit     int
	remaining int
	reset     time.Time
}

// check counts the request against every configured key. The first exhausted
// key decides; otherwise the tightest remaining budget is reported.
func (rl *RateLimiter) check(c *gin.Context) (limitResult, error) {
	ctx := c.Request.Context()
	var result limitResult
	counted := false

	consider := func(key string, limit int) error {
		allowed, remaining, reset, err := rl.count(ctx, key, limit)
		if err != nil {
			return err
		}
		if !counted || !allowed || (result.allowed && remaining < result.remaining) {
			result = limitResult{allowed: allowed, limit: limit, remaining: remaining, reset: reset}
		}
		counted = true
		return nil
	}

	if sessionID := SessionID(c); sessionID != "" {
		if err := consider(sessionID, rl.config.Limit); err != nil {
			return result, err
		}
	}
	if rl.config.IPLimit > 0 && (!counted || result.allowed) {
		if err := consider("ip:"+c.ClientIP(), rl.config.IPLimit); err != nil {
			return result, err
		}
	}
	if !counted {
		result.allowed = true
	}
	result.checked = counted
	return result, nil
}

// RateLimitMiddleware returns a Gin middleware that enforces rate limiting
// per session. It must run after Session.
func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.redis == nil {
			c.Next()
			return
		}

		result, err := rl.check(c)
		if err != nil {
			// fail open
			log.Printf("Failed to check rate limit: %v", err)
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}
		if !result.checked {
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.reset.Unix(), 10))

		if !result.allowed {
			retryAfter := int(result.reset.Sub(rl.now()).Seconds())
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			if strings.HasPrefix(c.Request.URL.Path, "/api/") {
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
					"error":       "rate limit exceeded",
					"message":     fmt.Sprintf("You have exceeded the rate limit of %d requests per %v", result.limit, rl.config.Window),
					"retry_after": retryAfter,
				})
				return
			}
			c.String(http.StatusTooManyRequests, "Too many requests. Try again in %d seconds.", retryAfter)
			c.Abort()
			return
		}

		c.Next()
	}
}

// IsAllowed counts one request for a session key in the current window.
// Returns: allowed, remaining requests, reset time, error
func (rl *RateLimiter) IsAllowed(ctx context.Context, key string) (bool, int, time.Time, error) {
	return rl.count(ctx, key, rl.config.Limit)
}

func (rl *RateLimiter) count(ctx context.Context, key string, limit int) (bool, int, time.Time, error) {
	windowStart := rl.now().Truncate(rl.config.Window)
	redisKey := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, key, windowStart.Unix())

	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.config.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= limit, remaining, windowStart.Add(rl.config.Window), nil
}
