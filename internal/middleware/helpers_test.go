package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/green-haven/internal/domain/model"
	"github.com/guttosm/green-haven/internal/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// captureService records every entry the async logger writes.
type captureService struct {
	mocks.MockLoggingService
	entries chan *model.LogEntry
}

func newCaptureService() *captureService {
	return &captureService{entries: make(chan *model.LogEntry, 64)}
}

func (s *captureService) CreateLog(_ context.Context, entry *model.LogEntry) error {
	s.entries <- entry
	return nil
}

func (s *captureService) CreateLogs(_ context.Context, entries []*model.LogEntry) error {
	for _, e := range entries {
		s.entries <- e
	}
	return nil
}

// withSession seeds the session id the Session middleware would set.
func withSession(sessionID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(string(SessionIDKey), sessionID)
		c.Next()
	}
}
