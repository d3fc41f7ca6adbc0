// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/green-haven/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

// MockLogsRepository is a mock of repository.LogsRepositoryInterface.
type MockLogsRepository struct {
	mock.Mock
}

func (m *MockLogsRepository) Create(ctx context.Context, entry *model.LogEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockLogsRepository) CreateMany(ctx context.Context, entries []*model.LogEntry) error {
	return m.Called(ctx, entries).Error(0)
}

func (m *MockLogsRepository) Query(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error) {
	args := m.Called(ctx, opts)
	entries, _ := args.Get(0).([]model.LogEntry)
	return entries, args.Error(1)
}

func (m *MockLogsRepository) Count(ctx context.Context, opts model.LogQueryOptions) (int64, error) {
	args := m.Called(ctx, opts)
	count, _ := args.Get(0).(int64)
	return count, args.Error(1)
}
