package middleware

import (
	"sdo_backend/internal/util"
	"sdo_backend/pkg/logger"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an id and logs it once it completes.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(util.ContextRequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("requestId", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		if user := util.GetUserFromContext(c); user != nil {
			fields = append(fields, zap.Uint("userId", user.UserID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= 500:
			logger.Log.Error("Request", fields...)
		case c.Writer.Status() >= 400:
			logger.Log.Warn("Request", fields...)
		default:
			logger.Log.Info("Request", fields...)
		}
	}
}
