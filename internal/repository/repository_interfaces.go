// Package repository provides the persistence layer: session carts and the audit log.
package repository

import (
	"context"
	"errors"

	"github.com/guttosm/green-haven/internal/domain/model"
)

// ErrCartNotFound is returned when a session has no stored cart.
var ErrCartNotFound = errors.New("cart not found")

// CartRepositoryInterface stores one cart per shopper session.
type CartRepositoryInterface interface {
	// Get returns the cart of sessionID or ErrCartNotFound.
	Get(ctx context.Context, sessionID string) (model.CartState, error)
	// Save replaces the cart of sessionID and refreshes its expiry.
	Save(ctx context.Context, sessionID string, state model.CartState) error
}

// LogsRepositoryInterface stores and reads the audit trail.
type LogsRepositoryInterface interface {
	Create(ctx context.Context, entry *model.LogEntry) error
	CreateMany(ctx context.Context, entries []*model.LogEntry) error
	Query(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error)
	Count(ctx context.Context, opts model.LogQueryOptions) (int64, error)
}
