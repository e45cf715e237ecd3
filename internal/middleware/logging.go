package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-tracker-api/internal/logger"
	"go.uber.org/zap"
)

// Logging logs one line per request with its request ID.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("id", GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", c.ClientIP()),
		}
		if userID, ok := GetUserID(c); ok {
			fields = append(fields, zap.Uint64("user_id", userID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			logger.L().Error("request", fields...)
		case status >= 400:
			logger.L().Warn("request", fields...)
		default:
			logger.L().Info("request", fields...)
		}
	}
}
