package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/guttosm/green-haven/internal/logger"
	"github.com/redis/go-redis/v9"
)

// MemoryIdempotencyStore keeps idempotent responses in process memory.
type MemoryIdempotencyStore struct {
	mu       sync.RWMutex
	items    map[string]*CachedResponse
	ttl      time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewMemoryIdempotencyStore creates a store whose entries live for ttl.
func NewMemoryIdempotencyStore(ttl time.Duration) *MemoryIdempotencyStore {
	if ttl <= 0 {
		ttl = IdempotencyKeyTTL
	}
	s := &MemoryIdempotencyStore{
		items:  make(map[string]*CachedResponse),
		ttl:    ttl,
		stopCh: make(chan struct{}),
	}
	go s.startCleanup()
	return s
}

// Get retrieves a cached response.
func (s *MemoryIdempotencyStore) Get(_ context.Context, key string) (*CachedResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resp, ok := s.items[key]
	if !ok || time.Since(resp.Timestamp) > s.ttl {
		return nil, false
	}
	return resp, true
}

// Set stores a cached response.
func (s *MemoryIdempotencyStore) Set(_ context.Context, key string, resp *CachedResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp.Timestamp = time.Now()
	s.items[key] = resp
}

// Len returns the number of stored responses, expired ones included.
func (s *MemoryIdempotencyStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Stop ends the cleanup goroutine.
func (s *MemoryIdempotencyStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

func (s *MemoryIdempotencyStore) startCleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

func (s *MemoryIdempotencyStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, resp := range s.items {
		if now.Sub(resp.Timestamp) > s.ttl {
			delete(s.items, key)
		}
	}
}

const idempotencyKeyPrefix = "idempotency:"

// RedisIdempotencyStore shares idempotent responses between instances.
// Redis errors degrade to a cache miss.
type RedisIdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisIdempotencyStore creates a Redis backed store.
func NewRedisIdempotencyStore(client *redis.Client, ttl time.Duration) *RedisIdempotencyStore {
	if ttl <= 0 {
		ttl = IdempotencyKeyTTL
	}
	return &RedisIdempotencyStore{client: client, ttl: ttl}
}

// Get retrieves a cached response.
func (s *RedisIdempotencyStore) Get(ctx context.Context, key string) (*CachedResponse, bool) {
	raw, err := s.client.Get(ctx, idempotencyKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log := logger.Logger()
			log.Warn().Err(err).Msg("Idempotency lookup failed")
		}
		return nil, false
	}

	var resp CachedResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

// Set stores a cached response.
func (s *RedisIdempotencyStore) Set(ctx context.Context, key string, resp *CachedResponse) {
	resp.Timestamp = time.Now()
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.client.Set(ctx, idempotencyKeyPrefix+key, raw, s.ttl).Err(); err != nil {
		log := logger.Logger()
		log.Warn().Err(err).Msg("Idempotency store write failed")
	}
}
