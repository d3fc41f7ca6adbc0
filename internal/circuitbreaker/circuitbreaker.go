// Package circuitbreaker guards the storefront's backing stores (the Redis
// session store and the MongoDB audit log) with a consecutive-failure
// circuit breaker.
package circuitbreaker

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
)

// ErrCircuitOpen is returned while the breaker rejects calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State represents the state of the circuit breaker.
type State int

const (
	// StateClosed lets calls through.
	StateClosed State = iota
	// StateOpen rejects calls until Timeout has passed.
	StateOpen
	// StateHalfOpen lets a few probe calls through.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

func fromGobreaker(s gobreaker.State) State {
	switch s {
	case gobreaker.StateOpen:
		return StateOpen
	case gobreaker.StateHalfOpen:
		return StateHalfOpen
	default:
		return StateClosed
	}
}

// Config holds circuit breaker configuration.
type Config struct {
	// FailureThreshold is the number of consecutive failures that opens the circuit.
	FailureThreshold int
	// SuccessThreshold is the number of consecutive half-open successes that closes it.
	SuccessThreshold int
	// Timeout is how long the circuit stays open before probing.
	Timeout time.Duration
	// Name identifies the breaker in logs and metrics.
	Name string
	// OnStateChange, when set, is called after every transition while the
	// breaker lock is held. It must not call back into the breaker.
	OnStateChange func(name string, from, to State)
}

// DefaultConfig returns a default circuit breaker configuration.
func DefaultConfig() Config {
	return Config{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Timeout:          30 * time.Second,
		Name:             "circuit-breaker",
	}
}

// CircuitBreaker implements the circuit breaker pattern on top of gobreaker.
type CircuitBreaker struct {
	name        string
	breaker     *gobreaker.CircuitBreaker[struct{}]
	lastFailure atomic.Int64
}

// New creates a circuit breaker with the given configuration.
func New(config Config) *CircuitBreaker {
	cb := &CircuitBreaker{name: config.Name}

	failures := uint32(max(config.FailureThreshold, 1))
	settings := gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: uint32(max(config.SuccessThreshold, 1)),
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			// a caller giving up says nothing about the store
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			cb.lastFailure.Store(time.Now().UnixNano())
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("circuit_breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
			if config.OnStateChange != nil {
				config.OnStateChange(name, fromGobreaker(from), fromGobreaker(to))
			}
		},
	}
	cb.breaker = gobreaker.NewCircuitBreaker[struct{}](settings)
	return cb
}

// Execute runs fn unless the circuit is open, in which case it returns
// ErrCircuitOpen without calling fn.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := cb.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrCircuitOpen
	}
	return err
}

// Name returns the configured breaker name.
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// State returns the current state of the circuit breaker.
func (cb *CircuitBreaker) State() State {
	return fromGobreaker(cb.breaker.State())
}

// IsOpen returns true if the circuit breaker is open.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.State() == StateOpen
}

// Stats returns circuit breaker statistics.
type Stats struct {
	Name         string
	State        string
	FailureCount int
	SuccessCount int
	LastFailure  time.Time
	IsHealthy    bool
}

// GetStats returns current circuit breaker statistics.
func (cb *CircuitBreaker) GetStats() Stats {
	state := cb.State()
	counts := cb.breaker.Counts()

	var last time.Time
	if ns := cb.lastFailure.Load(); ns != 0 {
		last = time.Unix(0, ns)
	}

	return Stats{
		Name:         cb.name,
		State:        state.String(),
		FailureCount: int(counts.ConsecutiveFailures),
		SuccessCount: int(counts.ConsecutiveSuccesses),
		LastFailure:  last,
		IsHealthy:    state == StateClosed,
	}
}
