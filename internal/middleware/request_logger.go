package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/green-haven/internal/domain/model"
	"github.com/guttosm/green-haven/internal/logger"
)

// RequestLogger returns a middleware that writes one structured line per
// request and, when al is set, stores the request in the audit log.
func RequestLogger(al *AsyncLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()
		requestID := GetRequestID(c)
		sessionID := GetSessionID(c)

		log := logger.Logger().With().
			Str("request_id", requestID).
			Str("session_id", sessionID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status_code", statusCode).
			Int64("duration_ms", latency.Milliseconds()).
			Str("ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Logger()

		level := getLogLevel(statusCode)
		switch level {
		case model.LevelError:
			log.Error().Msg("HTTP request")
		case model.LevelWarn:
			log.Warn().Msg("HTTP request")
		default:
			log.Info().Msg("HTTP request")
		}

		al.Log(&model.LogEntry{
			Timestamp:  time.Now().UTC(),
			Level:      level,
			Message:    "HTTP request",
			RequestID:  requestID,
			SessionID:  sessionID,
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			StatusCode: statusCode,
			Duration:   latency.Milliseconds(),
			IP:         c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
		})
	}
}

// getLogLevel returns the log level based on HTTP status code.
func getLogLevel(statusCode int) string {
	switch {
	case statusCode >= 500:
		return model.LevelError
	case statusCode >= 400:
		return model.LevelWarn
	default:
		return model.LevelInfo
	}
}
