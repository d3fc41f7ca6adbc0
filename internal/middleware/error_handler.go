package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/green-haven/internal/circuitbreaker"
	"github.com/guttosm/green-haven/internal/domain/dto"
	"github.com/guttosm/green-haven/internal/i18n"
	"github.com/guttosm/green-haven/internal/logger"
	"github.com/guttosm/green-haven/internal/service"
)

// ErrorHandler logs the last error attached to the gin context and, when the
// handler wrote nothing, answers with the matching error envelope.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		requestID := GetRequestID(c)
		status, code, key := classify(err)
		written := c.Writer.Written()
		if written {
			status = c.Writer.Status()
		}

		log := logger.Logger()
		event := log.Error()
		if status < http.StatusInternalServerError {
			event = log.Warn()
		}
		event.
			Str("request_id", requestID).
			Str("session_id", GetSessionID(c)).
			Err(err).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Msg("Request error")

		if !written {
			message := i18n.GetTranslator().Translate(key, i18n.GetLocale(c))
			c.JSON(status, dto.NewError(code, message).WithRequestID(requestID))
		}
	}
}

// classify maps an error to its HTTP status, error code and message key.
func classify(err error) (int, string, string) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		return http.StatusNotFound, dto.ErrCodeNotFound, i18n.ErrKeyProductNotFound
	case errors.Is(err, circuitbreaker.ErrCircuitOpen):
		return http.StatusServiceUnavailable, dto.ErrCodeUnavailable, i18n.ErrKeyServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, dto.ErrCodeTimeout, i18n.ErrKeyTimeout
	default:
		return http.StatusInternalServerError, dto.ErrCodeInternal, i18n.ErrKeyInternalError
	}
}
