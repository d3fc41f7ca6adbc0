package store

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/guttosm/green-haven/internal/domain/model"
	"github.com/guttosm/green-haven/internal/metrics"
	"github.com/guttosm/green-haven/internal/repository"
)

const lockStripes = 64

// Publisher delivers a session's new cart state to its subscribers.
type Publisher interface {
	Publish(sessionID string, state model.CartState)
}

// Store holds the cart of every session. Actions on one session are applied
// one at a time; different sessions proceed independently.
type Store struct {
	repo      repository.CartRepositoryInterface
	hub       *Hub
	publisher Publisher
	locks     [lockStripes]sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithPublisher routes change notifications through p instead of the local
// hub, e.g. to fan out across instances.
func WithPublisher(p Publisher) Option {
	return func(s *Store) {
		s.publisher = p
	}
}

// New creates a store persisting carts in repo and notifying through hub.
func New(repo repository.CartRepositoryInterface, hub *Hub, opts ...Option) *Store {
	s := &Store{
		repo:      repo,
		hub:       hub,
		publisher: hub,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) lock(sessionID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return &s.locks[h.Sum32()%lockStripes]
}

// State returns the current cart of sessionID. A session without a stored
// cart has the empty cart.
func (s *Store) State(ctx context.Context, sessionID string) (model.CartState, error) {
	state, err := s.repo.Get(ctx, sessionID)
	if errors.Is(err, repository.ErrCartNotFound) {
		return model.EmptyCart(), nil
	}
	if err != nil {
		return model.CartState{}, fmt.Errorf("load cart: %w", err)
	}
	return state, nil
}

// Dispatch applies action to the cart of sessionID, saves the result and
// notifies the session's subscribers. It returns the new state.
func (s *Store) Dispatch(ctx context.Context, sessionID string, action Action) (model.CartState, error) {
	start := time.Now()
	mu := s.lock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	current, err := s.State(ctx, sessionID)
	if err != nil {
		return model.CartState{}, err
	}

	next := Reduce(current, action)
	if err := s.repo.Save(ctx, sessionID, next); err != nil {
		return model.CartState{}, fmt.Errorf("save cart: %w", err)
	}

	s.publisher.Publish(sessionID, next)
	metrics.RecordDispatch(time.Since(start))
	return next, nil
}

// Subscribe returns a channel that receives the cart of sessionID after
// every change, and a function that ends the subscription. Slow readers
// only see the latest state.
func (s *Store) Subscribe(sessionID string) (<-chan model.CartState, func()) {
	return s.hub.Subscribe(sessionID)
}
