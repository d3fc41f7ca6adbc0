package service

import (
	"context"
	"errors"

	"github.com/guttosm/green-haven/internal/domain/model"
	"github.com/guttosm/green-haven/internal/repository"
)

// Query limits for audit log reads.
const (
	DefaultLogQueryLimit = 100
	MaxLogQueryLimit     = 1000
)

// ErrNilLogEntry is returned when CreateLog is given nothing to store.
var ErrNilLogEntry = errors.New("log entry is nil")

// LoggingService stores and queries audit log entries.
type LoggingService interface {
	// CreateLog stores a single log entry.
	CreateLog(ctx context.Context, entry *model.LogEntry) error

	// CreateLogs stores multiple log entries in bulk.
	CreateLogs(ctx context.Context, entries []*model.LogEntry) error

	// QueryLogs retrieves log entries matching the query options, newest first.
	QueryLogs(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error)

	// CountLogs returns the count of log entries matching the query options.
	CountLogs(ctx context.Context, opts model.LogQueryOptions) (int64, error)
}

// LoggingServiceImpl implements LoggingService on a logs repository.
type LoggingServiceImpl struct {
	repo repository.LogsRepositoryInterface
}

// NewLoggingService creates a logging service backed by repo.
func NewLoggingService(repo repository.LogsRepositoryInterface) LoggingService {
	return &LoggingServiceImpl{repo: repo}
}

// entries without a level are informational
func normalize(entry *model.LogEntry) {
	if entry.Level == "" {
		entry.Level = model.LevelInfo
	}
}

// CreateLog stores a single log entry.
func (s *LoggingServiceImpl) CreateLog(ctx context.Context, entry *model.LogEntry) error {
	if entry == nil {
		return ErrNilLogEntry
	}
	normalize(entry)
	return s.repo.Create(ctx, entry)
}

// CreateLogs stores the non-nil entries of a batch in one write.
func (s *LoggingServiceImpl) CreateLogs(ctx context.Context, entries []*model.LogEntry) error {
	batch := make([]*model.LogEntry, 0, len(entries))
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		normalize(entry)
		batch = append(batch, entry)
	}
	if len(batch) == 0 {
		return nil
	}
	return s.repo.CreateMany(ctx, batch)
}

// QueryLogs retrieves matching entries. The limit defaults to
// DefaultLogQueryLimit and is capped at MaxLogQueryLimit.
func (s *LoggingServiceImpl) QueryLogs(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error) {
	switch {
	case opts.Limit <= 0:
		opts.Limit = DefaultLogQueryLimit
	case opts.Limit > MaxLogQueryLimit:
		opts.Limit = MaxLogQueryLimit
	}
	if opts.Skip < 0 {
		opts.Skip = 0
	}
	return s.repo.Query(ctx, opts)
}

// CountLogs returns the count of log entries matching the query options.
func (s *LoggingServiceImpl) CountLogs(ctx context.Context, opts model.LogQueryOptions) (int64, error) {
	return s.repo.Count(ctx, opts)
}
