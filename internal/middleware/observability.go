package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prefeitura-rio/app-pessoas/internal/observability"
	"go.uber.org/zap"
)

// RequestIDKey is the gin context key holding the request ID
const RequestIDKey = "RequestID"

// RequestLogger logs request information
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		observability.Logger().Info("request completed",
			zap.String("request_id", c.GetString(RequestIDKey)),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.String("method", c.Request.Method),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("user_agent", c.Request.UserAgent()),
		)
	}
}

// RequestTracker tracks in-flight requests
func RequestTracker() gin.HandlerFunc {
	return func(c *gin.Context) {
		observability.InFlightRequests.Inc()
		defer observability.InFlightRequests.Dec()
		c.Next()
	}
}

// RequestID adds a unique request ID to the context, reusing X-Request-ID when sent
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}
