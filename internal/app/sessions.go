package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/guttosm/green-haven/config"
	"github.com/guttosm/green-haven/internal/circuitbreaker"
	"github.com/guttosm/green-haven/internal/metrics"
	"github.com/guttosm/green-haven/internal/middleware"
	"github.com/guttosm/green-haven/internal/repository"
	"github.com/guttosm/green-haven/internal/store"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// SessionComponents holds the cart store and everything it depends on.
type SessionComponents struct {
	Store            *store.Store
	IdempotencyStore middleware.IdempotencyStore
	RedisClient      *redis.Client
	RedisRepo        *repository.RedisCartRepository
	// MemoryRepo is set for the in-process backend only.
	MemoryRepo     *repository.MemoryCartRepository
	CircuitBreaker *circuitbreaker.CircuitBreaker

	stops []func()
	once  sync.Once
}

// Close stops background work and closes the Redis client.
func (s *SessionComponents) Close() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		for i := len(s.stops) - 1; i >= 0; i-- {
			s.stops[i]()
		}
	})
}

// InitializeSessionStore builds the cart store for the configured backend.
// The Redis backend shares carts and live updates between instances.
func InitializeSessionStore(cfg config.Config) (*SessionComponents, error) {
	hub := store.NewHub()

	if cfg.Session.Store != config.SessionStoreRedis {
		repo := repository.NewMemoryCartRepository(cfg.Session.Capacity, cfg.Session.TTL, 0)
		idem := middleware.NewMemoryIdempotencyStore(middleware.IdempotencyKeyTTL)
		log.Info().Int("capacity", cfg.Session.Capacity).Msg("Using in-memory session store")
		return &SessionComponents{
			Store:            store.New(repo, hub),
			IdempotencyStore: idem,
			MemoryRepo:       repo,
			stops:            []func(){repo.Stop, idem.Stop},
		}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Redis.Addr, err)
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to Redis session store")

	cb := newCircuitBreaker("redis-sessions", cfg.Database)
	redisRepo := repository.NewRedisCartRepository(client, cfg.Session.TTL)
	repo := repository.NewCartRepositoryWithCircuitBreaker(redisRepo, cb)

	relay := store.NewRedisRelay(client, hub, store.DefaultRelayChannel)
	relayCtx, stopRelay := context.WithCancel(context.Background())
	ready := make(chan struct{})
	relayDone := make(chan error, 1)
	go func() {
		relayDone <- relay.Run(relayCtx, ready)
	}()

	// serve only once live updates from other instances are flowing
	select {
	case <-ready:
	case err := <-relayDone:
		stopRelay()
		_ = client.Close()
		return nil, fmt.Errorf("subscribe to cart events: %w", err)
	case <-ctx.Done():
		stopRelay()
		<-relayDone
		_ = client.Close()
		return nil, fmt.Errorf("subscribe to cart events: %w", ctx.Err())
	}

	return &SessionComponents{
		Store:            store.New(repo, hub, store.WithPublisher(relay)),
		IdempotencyStore: middleware.NewRedisIdempotencyStore(client, middleware.IdempotencyKeyTTL),
		RedisClient:      client,
		RedisRepo:        redisRepo,
		CircuitBreaker:   cb,
		stops: []func(){
			func() { _ = client.Close() },
			func() {
				stopRelay()
				if err := <-relayDone; err != nil && !errors.Is(err, context.Canceled) {
					log.Error().Err(err).Msg("Cart relay stopped")
				}
			},
		},
	}, nil
}

// newCircuitBreaker creates a breaker that reports its state as a metric.
func newCircuitBreaker(name string, cfg config.DatabaseConfig) *circuitbreaker.CircuitBreaker {
	metrics.SetCircuitBreakerState(name, int(circuitbreaker.StateClosed))
	return circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             name,
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			metrics.SetCircuitBreakerState(name, int(to))
		},
	})
}
