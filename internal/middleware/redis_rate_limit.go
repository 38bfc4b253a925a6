package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/blogworks/postapi/internal/cache"
	"github.com/blogworks/postapi/internal/logger"
	"github.com/blogworks/postapi/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RedisRateLimitMiddleware is a fixed-window limiter shared by every server
// instance through Redis. A nil client falls back to the in-memory limiter.
func RedisRateLimitMiddleware(rc *cache.RedisClient, config RateLimitConfig) gin.HandlerFunc {
	if rc == nil {
		return NewRateLimiter(config)
	}
	if config.KeyFunc == nil {
		config.KeyFunc = clientIPKey
	}

	return func(c *gin.Context) {
		key := fmt.Sprintf("rate_limit:%s:%s:%s", config.Name, c.FullPath(), config.KeyFunc(c))
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		count, err := rc.IncrWindow(ctx, key, config.Window)
		if err != nil {
			// Reject rather than run unlimited while the limiter is down
			logger.Log.Error("Rate limit check failed",
				logger.WithIP(c.ClientIP()),
				zap.Error(err),
			)
			util.RespondServiceUnavailable(c, "rate limiter")
			return
		}

		remaining := int64(config.Limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(config.Limit) {
			logger.Log.Warn("Rate limit exceeded",
				logger.WithIP(c.ClientIP()),
				zap.Int("max_requests", config.Limit),
				zap.Int64("current_requests", count),
			)
			RecordRateLimitExceeded(c.FullPath(), c.Request.Method)
			c.Header("Retry-After", strconv.Itoa(int(config.Window.Seconds())))
			util.RespondTooManyRequests(c, "")
			return
		}

		c.Next()
	}
}
