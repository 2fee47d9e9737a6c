package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"geosocial/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitMiddleware allows limit requests per window for each (path, caller)
// pair, where the caller is the authenticated user or the client IP. Without a
// Redis client, or when Redis fails, requests are let through.
func RateLimitMiddleware(redisClient *redis.Client, log *logger.Logger, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil {
			c.Next()
			return
		}

		caller := c.GetString(ContextUserID)
		if caller == "" {
			caller = c.ClientIP()
		}

		key := fmt.Sprintf("rate_limit:%s:%s", c.FullPath(), caller)

		ctx := c.Request.Context()
		count, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			if log != nil {
				log.Warn("Rate limit check failed, allowing request: %v", err)
			}
			c.Next()
			return
		}

		if count == 1 {
			if err := redisClient.Expire(ctx, key, window).Err(); err != nil {
				// A counter without a TTL would never reset.
				redisClient.Del(ctx, key)
				if log != nil {
					log.Warn("Rate limit expire failed for %s, counter dropped: %v", key, err)
				}
			}
		}

		if count > int64(limit) {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate_limited", "message": "Rate limit exceeded"})
			return
		}

		c.Next()
	}
}
