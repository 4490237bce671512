package middlewares

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimiter implements a fixed-window rate limit on top of Redis atomic
// operations, so limits hold across multiple instances sharing one Redis.
type RateLimiter struct {
	redisClient *redis.Client
	logger      *zap.Logger
	fallback    bool // If true, allow requests when Redis is unavailable (fail-open)
}

// NewRateLimiter creates a Redis-backed rate limiter.
func NewRateLimiter(redisClient *redis.Client, logger *zap.Logger, fallback bool) *RateLimiter {
	return &RateLimiter{
		redisClient: redisClient,
		logger:      logger,
		fallback:    fallback,
	}
}

// Allow checks whether one more request under key fits inside the current
// window. It uses a Redis pipeline (INCR + EXPIRE) so the check is atomic.
func (l *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	bucketKey := fmt.Sprintf("ratelimit:%s:%d", key, now.UnixNano()/int64(window))

	pipe := l.redisClient.Pipeline()
	incrCmd := pipe.Incr(ctx, bucketKey)
	pipe.Expire(ctx, bucketKey, window+time.Second)

	if _, err := pipe.Exec(ctx); err != nil {
		if l.fallback {
			l.logger.Warn("rate limit check failed, allowing request (fail-open)",
				zap.String("key", key),
				zap.Error(err),
			)
			return true, nil
		}
		return false, fmt.Errorf("rate limit check failed: %w", err)
	}

	count := incrCmd.Val()
	allowed := count <= int64(limit)

	if !allowed {
		l.logger.Warn("rate limit exceeded",
			zap.String("key", key),
			zap.Int64("count", count),
			zap.Int("limit", limit),
		)
	}

	return allowed, nil
}

// Reset clears the current window counter for a key.
func (l *RateLimiter) Reset(ctx context.Context, key string, window time.Duration) error {
	now := time.Now()
	bucketKey := fmt.Sprintf("ratelimit:%s:%d", key, now.UnixNano()/int64(window))
	if err := l.redisClient.Del(ctx, bucketKey).Err(); err != nil {
		return fmt.Errorf("failed to reset rate limit for key %s: %w", key, err)
	}
	return nil
}

// RateLimitMiddleware 全局限流中间件
// Buckets are keyed by client IP; limit/window come from configuration.
func RateLimitMiddleware(limiter *RateLimiter, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), "ip:"+c.ClientIP(), limit, window)
		if err != nil || !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too Many Requests - please try again later",
			})
			return
		}
		c.Next()
	}
}
