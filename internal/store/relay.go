package store

import (
	"context"
	"encoding/json"

	"github.com/guttosm/green-haven/internal/domain/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DefaultRelayChannel is the Redis channel carrying cart changes.
const DefaultRelayChannel = "green-haven:cart-events"

type cartEvent struct {
	SessionID string          `json:"session_id"`
	State     model.CartState `json:"state"`
}

// RedisRelay publishes cart changes on a Redis channel and feeds every change
// it receives into the local hub, so subscribers on any instance sharing the
// Redis session store see them.
type RedisRelay struct {
	client  *redis.Client
	hub     *Hub
	channel string
}

// NewRedisRelay creates a relay on channel. An empty channel uses DefaultRelayChannel.
func NewRedisRelay(client *redis.Client, hub *Hub, channel string) *RedisRelay {
	if channel == "" {
		channel = DefaultRelayChannel
	}
	return &RedisRelay{client: client, hub: hub, channel: channel}
}

// Publish implements Publisher. When Redis is unreachable the change is
// still delivered to local subscribers.
func (r *RedisRelay) Publish(sessionID string, state model.CartState) {
	data, err := json.Marshal(cartEvent{SessionID: sessionID, State: state})
	if err == nil {
		err = r.client.Publish(context.Background(), r.channel, data).Err()
	}
	if err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("cart relay publish failed, notifying locally")
		r.hub.Publish(sessionID, state)
	}
}

// Run forwards relayed changes to the local hub until ctx is done. ready, if
// not nil, is closed once the subscription is confirmed.
func (r *RedisRelay) Run(ctx context.Context, ready chan<- struct{}) error {
	pubsub := r.client.Subscribe(ctx, r.channel)
	defer func() {
		_ = pubsub.Close()
	}()

	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}
	if ready != nil {
		close(ready)
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var ev cartEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Warn().Err(err).Msg("discarding malformed cart event")
				continue
			}
			r.hub.Publish(ev.SessionID, ev.State)
		}
	}
}
