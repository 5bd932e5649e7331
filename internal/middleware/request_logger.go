package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/skykeen/events-backend/internal/pkg/logger"
)

// RequestLogger logs each request with method, path, status and latency
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		event := logger.Info()
		if status >= 500 {
			event = logger.Error()
		} else if status >= 400 {
			event = logger.Warn()
		}

		logRequest(event, c, path, status, duration)
	}
}

func logRequest(event *zerolog.Event, c *gin.Context, path string, status int, duration time.Duration) {
	event.
		Str("method", c.Request.Method).
		Str("path", path).
		Int("status", status).
		Dur("duration", duration).
		Str("clientIP", c.ClientIP()).
		Msg("Request handled")
}
