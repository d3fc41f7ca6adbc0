//go:build !integration

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	aloe  = Product{ID: 1, Name: "Aloe Vera", Price: 10, Image: "aloe.jpg"}
	snake = Product{ID: 2, Name: "Snake Plant", Price: 15, Image: "snake.jpg"}
	lily  = Product{ID: 3, Name: "Peace Lily", Price: 20, Image: "peace_lily.jpg"}
)

func applyAll(products ...Product) CartState {
	state := EmptyCart()
	for _, p := range products {
		state = AddToCart(state, p)
	}
	return state
}

func TestAddToCart(t *testing.T) {
	tests := []struct {
		name       string
		adds       []Product
		wantItems  []LineItem
		wantCount  int
		wantAmount float64
	}{
		{
			name:       "empty cart",
			wantItems:  []LineItem{},
			wantCount:  0,
			wantAmount: 0,
		},
		{
			name:       "single add creates line item",
			adds:       []Product{aloe},
			wantItems:  []LineItem{{Product: aloe, Quantity: 1}},
			wantCount:  1,
			wantAmount: 10,
		},
		{
			name:       "same product twice merges into one line item",
			adds:       []Product{aloe, aloe},
			wantItems:  []LineItem{{Product: aloe, Quantity: 2}},
			wantCount:  2,
			wantAmount: 20,
		},
		{
			name:       "distinct products keep first-added order",
			adds:       []Product{snake, aloe},
			wantItems:  []LineItem{{Product: snake, Quantity: 1}, {Product: aloe, Quantity: 1}},
			wantCount:  2,
			wantAmount: 25,
		},
		{
			name:       "end to end scenario",
			adds:       []Product{aloe, aloe, snake},
			wantItems:  []LineItem{{Product: aloe, Quantity: 2}, {Product: snake, Quantity: 1}},
			wantCount:  3,
			wantAmount: 35,
		},
		{
			name:       "interleaved repeats do not reorder",
			adds:       []Product{lily, aloe, lily, snake, aloe, lily},
			wantItems:  []LineItem{{Product: lily, Quantity: 3}, {Product: aloe, Quantity: 2}, {Product: snake, Quantity: 1}},
			wantCount:  6,
			wantAmount: 110,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := applyAll(tt.adds...)

			assert.Equal(t, tt.wantItems, state.Items)
			assert.Equal(t, tt.wantCount, state.TotalItems())
			assert.Equal(t, tt.wantAmount, state.TotalPrice())
			assert.Equal(t, len(tt.wantItems) == 0, state.IsEmpty())
		})
	}
}

func TestAddToCart_TotalsTrackEveryAdd(t *testing.T) {
	catalog := []Product{aloe, snake, lily}
	state := EmptyCart()
	var expected float64

	for n := 1; n <= 30; n++ {
		p := catalog[(n*7)%len(catalog)]
		state = AddToCart(state, p)
		expected += p.Price

		require.Equal(t, n, state.TotalItems())
		require.Equal(t, expected, state.TotalPrice())
	}
	assert.Len(t, state.Items, 3)
}

func TestAddToCart_DoesNotMutateInput(t *testing.T) {
	before := applyAll(aloe)
	after := AddToCart(before, aloe)
	after = AddToCart(after, snake)

	assert.Equal(t, []LineItem{{Product: aloe, Quantity: 1}}, before.Items)
	assert.Equal(t, 3, after.TotalItems())
}

func TestAddToCart_ZeroValueState(t *testing.T) {
	state := AddToCart(CartState{}, lily)

	assert.Equal(t, []LineItem{{Product: lily, Quantity: 1}}, state.Items)
}

func TestCartState_Find(t *testing.T) {
	state := applyAll(aloe, snake)

	assert.Equal(t, 0, state.Find(aloe.ID))
	assert.Equal(t, 1, state.Find(snake.ID))
	assert.Equal(t, -1, state.Find(lily.ID))
}

func TestLineItem_Subtotal(t *testing.T) {
	assert.Equal(t, 45.0, LineItem{Product: snake, Quantity: 3}.Subtotal())
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{0, "$0"},
		{10, "$10"},
		{35, "$35"},
		{12.5, "$12.5"},
		{9.99, "$9.99"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatPrice(tt.amount))
		})
	}
}
