package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/grvup/classroom/pkg/redis"
	"github.com/grvup/classroom/pkg/response"
)

// RateLimit throttles credential submissions per client IP and route.
// With no Redis client, or when Redis fails, requests pass.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	retryAfter := strconv.Itoa(int(window.Seconds()))

	return func(c *gin.Context) {
		if rdb == nil || limit <= 0 {
			c.Next()
			return
		}

		key := "auth:" + c.FullPath() + ":" + c.ClientIP()
		allowed, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		if !allowed {
			logger.Info("rate limit hit",
				zap.String("route", c.FullPath()),
				zap.String("ip", c.ClientIP()),
				zap.String("request_id", GetRequestID(c)),
			)
			c.Header("Retry-After", retryAfter)
			response.TooManyRequests(c)
			return
		}

		c.Next()
	}
}
