package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/green-haven/internal/domain/model"
	"github.com/guttosm/green-haven/internal/i18n"
)

// AuditLog records a shopper action in the audit log.
func AuditLog(al *AsyncLogger, c *gin.Context, actionType, message string, fields map[string]interface{}) {
	if al == nil {
		return
	}
	al.Log(newAuditEntry(c, model.LevelInfo, actionType, message, fields))
}

// AuditLogError records a failed shopper action in the audit log.
func AuditLogError(al *AsyncLogger, c *gin.Context, actionType, message string, err error, fields map[string]interface{}) {
	if al == nil {
		return
	}
	entry := newAuditEntry(c, model.LevelError, actionType, message, fields)
	if err != nil {
		entry.Error = err.Error()
	}
	al.Log(entry)
}

// newAuditEntry copies fields so callers may keep using their map.
func newAuditEntry(c *gin.Context, level, actionType, message string, fields map[string]interface{}) *model.LogEntry {
	entry := &model.LogEntry{
		Timestamp:  time.Now().UTC(),
		Level:      level,
		Message:    message,
		RequestID:  GetRequestID(c),
		SessionID:  GetSessionID(c),
		ActionType: actionType,
		Method:     c.Request.Method,
		Path:       c.Request.URL.Path,
		IP:         c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	}
	return entry.WithFields(fields).WithField("locale", i18n.GetLocale(c))
}
