package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/green-haven/internal/domain/model"
	"github.com/guttosm/green-haven/internal/metrics"
	"github.com/redis/go-redis/v9"
)

const (
	backendRedis  = "redis"
	cartKeyPrefix = "cart:"
)

// RedisCartRepository stores session carts in Redis so several instances
// can serve the same shopper. Every save refreshes the key expiry.
type RedisCartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCartRepository creates a new Redis-backed cart repository.
func NewRedisCartRepository(client *redis.Client, ttl time.Duration) *RedisCartRepository {
	return &RedisCartRepository{
		client: client,
		ttl:    ttl,
	}
}

// Get returns the cart of sessionID or ErrCartNotFound.
func (r *RedisCartRepository) Get(ctx context.Context, sessionID string) (model.CartState, error) {
	data, err := r.client.Get(ctx, cartKeyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.RecordSessionStoreOperation(backendRedis, "get", "miss")
			return model.CartState{}, ErrCartNotFound
		}
		metrics.RecordSessionStoreOperation(backendRedis, "get", "error")
		return model.CartState{}, fmt.Errorf("redis get cart: %w", err)
	}

	var state model.CartState
	if err := json.Unmarshal(data, &state); err != nil {
		metrics.RecordSessionStoreOperation(backendRedis, "get", "error")
		return model.CartState{}, fmt.Errorf("unmarshal cart: %w", err)
	}

	metrics.RecordSessionStoreOperation(backendRedis, "get", "hit")
	return state, nil
}

// Save persists a cart with the configured TTL.
func (r *RedisCartRepository) Save(ctx context.Context, sessionID string, state model.CartState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	if err := r.client.Set(ctx, cartKeyPrefix+sessionID, data, r.ttl).Err(); err != nil {
		metrics.RecordSessionStoreOperation(backendRedis, "save", "error")
		return fmt.Errorf("redis set cart: %w", err)
	}

	metrics.RecordSessionStoreOperation(backendRedis, "save", "success")
	return nil
}

// HealthCheck pings the Redis server.
func (r *RedisCartRepository) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return r.client.Ping(ctx).Err()
}
