package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/guttosm/green-haven/internal/domain/model"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRelay_DeliversAcrossHubs(t *testing.T) {
	mr := miniredis.RunT(t)
	newClient := func() *goredis.Client {
		c := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = c.Close() })
		return c
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	localHub, remoteHub := NewHub(), NewHub()
	local := NewRedisRelay(newClient(), localHub, "")
	remote := NewRedisRelay(newClient(), remoteHub, "")

	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- remote.Run(ctx, ready) }()
	select {
	case <-ready:
	case <-time.After(2 * time.Second):
		t.Fatal("relay did not subscribe")
	}

	ch, unsubscribe := remoteHub.Subscribe("sess")
	defer unsubscribe()

	state := model.AddToCart(model.EmptyCart(), aloe)
	local.Publish("sess", state)

	select {
	case got := <-ch:
		assert.Equal(t, state, got)
	case <-time.After(2 * time.Second):
		t.Fatal("relayed state not received")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("relay did not stop")
	}
}

func TestRedisRelay_FallsBackToLocalHub(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	hub := NewHub()
	relay := NewRedisRelay(client, hub, "custom")
	require.Equal(t, "custom", relay.channel)

	ch, cancel := hub.Subscribe("sess")
	defer cancel()

	state := model.AddToCart(model.EmptyCart(), snake)
	relay.Publish("sess", state)

	select {
	case got := <-ch:
		assert.Equal(t, state, got)
	default:
		t.Fatal("expected local delivery")
	}
}
