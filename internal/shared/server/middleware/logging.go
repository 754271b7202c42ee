package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"medvault-backend/internal/shared/telemetry"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		reqID := RequestIDFromContext(c)

		fields := map[string]any{
			"request_id": reqID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"latency_ms": latency.Milliseconds(),
			"bytes_out":  c.Writer.Size(),
		}
		if userID := c.Query("userId"); userID != "" {
			fields["user_id"] = userID
		}
		if recordID, ok := c.Get("recordId"); ok {
			fields["record_id"] = recordID
		}

		telemetry.Info("request.complete", fields)
	}
}
