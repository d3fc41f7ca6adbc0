package repository

import (
	"context"
	"errors"

	"github.com/guttosm/green-haven/internal/circuitbreaker"
	"github.com/guttosm/green-haven/internal/domain/model"
)

// guard runs fn through cb and hands back its result.
func guard[T any](ctx context.Context, cb *circuitbreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	var out T
	err := cb.Execute(ctx, func() error {
		var err error
		out, err = fn()
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// CartRepositoryWithCircuitBreaker guards a remote cart store. An open
// circuit is reported as circuitbreaker.ErrCircuitOpen; a missing cart does
// not count as a failure.
type CartRepositoryWithCircuitBreaker struct {
	repo           CartRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewCartRepositoryWithCircuitBreaker wraps repo with cb.
func NewCartRepositoryWithCircuitBreaker(repo CartRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *CartRepositoryWithCircuitBreaker {
	return &CartRepositoryWithCircuitBreaker{repo: repo, circuitBreaker: cb}
}

// Get loads the cart of sessionID.
func (r *CartRepositoryWithCircuitBreaker) Get(ctx context.Context, sessionID string) (model.CartState, error) {
	type lookup struct {
		state model.CartState
		found bool
	}
	res, err := guard(ctx, r.circuitBreaker, func() (lookup, error) {
		state, err := r.repo.Get(ctx, sessionID)
		if errors.Is(err, ErrCartNotFound) {
			return lookup{}, nil
		}
		return lookup{state: state, found: err == nil}, err
	})
	if err != nil {
		return model.CartState{}, err
	}
	if !res.found {
		return model.CartState{}, ErrCartNotFound
	}
	return res.state, nil
}

// Save stores the cart of sessionID.
func (r *CartRepositoryWithCircuitBreaker) Save(ctx context.Context, sessionID string, state model.CartState) error {
	return r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Save(ctx, sessionID, state)
	})
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *CartRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

// LogsRepositoryWithCircuitBreaker guards the audit store. Writes made while
// the circuit is open are dropped silently; reads report ErrCircuitOpen.
type LogsRepositoryWithCircuitBreaker struct {
	repo           LogsRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewLogsRepositoryWithCircuitBreaker wraps repo with cb.
func NewLogsRepositoryWithCircuitBreaker(repo LogsRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *LogsRepositoryWithCircuitBreaker {
	return &LogsRepositoryWithCircuitBreaker{repo: repo, circuitBreaker: cb}
}

func (r *LogsRepositoryWithCircuitBreaker) write(ctx context.Context, fn func() error) error {
	err := r.circuitBreaker.Execute(ctx, fn)
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}

// Create stores one entry.
func (r *LogsRepositoryWithCircuitBreaker) Create(ctx context.Context, entry *model.LogEntry) error {
	return r.write(ctx, func() error { return r.repo.Create(ctx, entry) })
}

// CreateMany stores a batch of entries.
func (r *LogsRepositoryWithCircuitBreaker) CreateMany(ctx context.Context, entries []*model.LogEntry) error {
	return r.write(ctx, func() error { return r.repo.CreateMany(ctx, entries) })
}

// Query reads entries matching opts.
func (r *LogsRepositoryWithCircuitBreaker) Query(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error) {
	return guard(ctx, r.circuitBreaker, func() ([]model.LogEntry, error) {
		return r.repo.Query(ctx, opts)
	})
}

// Count counts entries matching opts.
func (r *LogsRepositoryWithCircuitBreaker) Count(ctx context.Context, opts model.LogQueryOptions) (int64, error) {
	return guard(ctx, r.circuitBreaker, func() (int64, error) {
		return r.repo.Count(ctx, opts)
	})
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *LogsRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}
