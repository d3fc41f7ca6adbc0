//go:build !integration

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guttosm/green-haven/internal/catalog"
	"github.com/guttosm/green-haven/internal/domain/model"
	"github.com/guttosm/green-haven/internal/repository"
	"github.com/guttosm/green-haven/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCartService(t *testing.T) CartService {
	t.Helper()
	repo := repository.NewMemoryCartRepository(100, time.Hour, 4)
	t.Cleanup(repo.Stop)
	return NewCartService(catalog.Default(), store.New(repo, store.NewHub()))
}

func TestCartService_Products(t *testing.T) {
	svc := newTestCartService(t)

	products := svc.Products()
	require.Len(t, products, 3)
	assert.Equal(t, "Aloe Vera", products[0].Name)
	assert.Equal(t, "Snake Plant", products[1].Name)
	assert.Equal(t, "Peace Lily", products[2].Name)
}

func TestCartService_Product(t *testing.T) {
	svc := newTestCartService(t)

	tests := []struct {
		name    string
		id      int
		want    string
		wantErr error
	}{
		{"known product", 2, "Snake Plant", nil},
		{"unknown product", 99, "", ErrProductNotFound},
		{"zero id", 0, "", ErrProductNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := svc.Product(tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Name)
		})
	}
}

func TestCartService_AddItem(t *testing.T) {
	ctx := context.Background()
	svc := newTestCartService(t)

	empty, err := svc.Cart(ctx, "sess")
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())

	for _, id := range []int{1, 1, 2} {
		_, err := svc.AddItem(ctx, "sess", id)
		require.NoError(t, err)
	}

	cart, err := svc.Cart(ctx, "sess")
	require.NoError(t, err)
	assert.Equal(t, []model.LineItem{
		{Product: catalog.DefaultProducts[0], Quantity: 2},
		{Product: catalog.DefaultProducts[1], Quantity: 1},
	}, cart.Items)
	assert.Equal(t, 3, cart.TotalItems())
	assert.Equal(t, 35.0, cart.TotalPrice())
}

func TestCartService_AddItemUnknownProduct(t *testing.T) {
	ctx := context.Background()
	svc := newTestCartService(t)

	_, err := svc.AddItem(ctx, "sess", 42)
	assert.True(t, errors.Is(err, ErrProductNotFound))

	cart, err := svc.Cart(ctx, "sess")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestCartService_Subscribe(t *testing.T) {
	ctx := context.Background()
	svc := newTestCartService(t)

	ch, cancel := svc.Subscribe("sess")
	defer cancel()

	_, err := svc.AddItem(ctx, "sess", 3)
	require.NoError(t, err)

	select {
	case state := <-ch:
		assert.Equal(t, 1, state.TotalItems())
		assert.Equal(t, 20.0, state.TotalPrice())
	case <-time.After(time.Second):
		t.Fatal("no cart update received")
	}
}

func TestCartService_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	svc := newTestCartService(t)

	_, err := svc.AddItem(ctx, "a", 1)
	require.NoError(t, err)

	b, err := svc.Cart(ctx, "b")
	require.NoError(t, err)
	assert.True(t, b.IsEmpty())
}
