// Package store is the cart state container: it applies actions to a
// session's cart through the reducer, persists the result and notifies
// subscribers of that session.
package store

import "github.com/guttosm/green-haven/internal/domain/model"

// Action is a state-changing request submitted to the store.
type Action interface {
	// Type names the action for logs and metrics.
	Type() string
}

// AddToCart adds one unit of Product to the cart.
type AddToCart struct {
	Product model.Product
}

// Type implements Action.
func (AddToCart) Type() string { return "cart/add" }

// Reduce returns the state produced by applying action to state. Unknown
// actions leave the state unchanged.
func Reduce(state model.CartState, action Action) model.CartState {
	switch a := action.(type) {
	case AddToCart:
		return model.AddToCart(state, a.Product)
	default:
		return state
	}
}
