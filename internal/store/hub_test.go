package store

import (
	"testing"

	"github.com/guttosm/green-haven/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesOnlySession(t *testing.T) {
	hub := NewHub()
	chA, cancelA := hub.Subscribe("a")
	defer cancelA()
	chB, cancelB := hub.Subscribe("b")
	defer cancelB()

	state := model.AddToCart(model.EmptyCart(), aloe)
	hub.Publish("a", state)

	select {
	case got := <-chA:
		assert.Equal(t, state, got)
	default:
		t.Fatal("expected snapshot for session a")
	}

	select {
	case <-chB:
		t.Fatal("session b must not be notified")
	default:
	}
}

func TestHub_LatestWins(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe("a")
	defer cancel()

	first := model.AddToCart(model.EmptyCart(), aloe)
	second := model.AddToCart(first, snake)
	hub.Publish("a", first)
	hub.Publish("a", second)

	got := <-ch
	assert.Equal(t, second, got)
	select {
	case <-ch:
		t.Fatal("stale snapshot should have been dropped")
	default:
	}
}

func TestHub_CancelClosesAndIsIdempotent(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe("a")
	require.Equal(t, 1, hub.Count())

	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, hub.Count())

	hub.Publish("a", model.EmptyCart())
}

func TestHub_SnapshotsAreIndependent(t *testing.T) {
	hub := NewHub()
	ch1, cancel1 := hub.Subscribe("a")
	defer cancel1()
	ch2, cancel2 := hub.Subscribe("a")
	defer cancel2()

	hub.Publish("a", model.AddToCart(model.EmptyCart(), aloe))

	s1 := <-ch1
	s2 := <-ch2
	s1.Items[0].Quantity = 100
	assert.Equal(t, 1, s2.Items[0].Quantity)
}
