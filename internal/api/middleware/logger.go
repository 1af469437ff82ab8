package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/grvup/classroom/internal/model"
)

// Logger writes one line per request. Routes are logged by pattern so class
// and student ids stay out of aggregated logs; the concrete path goes along
// for debugging. Probe traffic is logged at debug level.
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.String("path", path),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", GetRequestID(c)),
		}
		if v, ok := c.Get(ContextUserKey); ok {
			if u, ok := v.(*model.User); ok {
				fields = append(fields, zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
			}
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.ByType(gin.ErrorTypePrivate).String()))
		}

		switch {
		case status >= 500:
			logger.Error("request failed", fields...)
		case status >= 400:
			logger.Warn("client error", fields...)
		case isProbe(path):
			logger.Debug("probe", fields...)
		default:
			logger.Info("request completed", fields...)
		}
	}
}
