// Package service contains the storefront business logic.
package service

import (
	"context"
	"errors"

	"github.com/guttosm/green-haven/internal/catalog"
	"github.com/guttosm/green-haven/internal/domain/model"
	"github.com/guttosm/green-haven/internal/logger"
	"github.com/guttosm/green-haven/internal/metrics"
	"github.com/guttosm/green-haven/internal/store"
)

// ErrProductNotFound is returned when a product id is not in the catalog.
var ErrProductNotFound = errors.New("product not found")

// CartService exposes the catalog and the per-session carts.
// This interface can be mocked for testing using mockery.
type CartService interface {
	// Products returns the catalog in display order.
	Products() []model.Product

	// Product returns one catalog entry or ErrProductNotFound.
	Product(id int) (model.Product, error)

	// Cart returns the cart of sessionID.
	Cart(ctx context.Context, sessionID string) (model.CartState, error)

	// AddItem adds one unit of productID to the cart of sessionID.
	AddItem(ctx context.Context, sessionID string, productID int) (model.CartState, error)

	// Subscribe streams the cart of sessionID after every change.
	Subscribe(sessionID string) (<-chan model.CartState, func())
}

// CartServiceImpl implements CartService on top of the cart store.
type CartServiceImpl struct {
	catalog *catalog.Catalog
	store   *store.Store
}

// NewCartService creates a cart service.
func NewCartService(c *catalog.Catalog, s *store.Store) CartService {
	return &CartServiceImpl{catalog: c, store: s}
}

// Products returns the catalog in display order.
func (s *CartServiceImpl) Products() []model.Product {
	return s.catalog.All()
}

// Product returns one catalog entry or ErrProductNotFound.
func (s *CartServiceImpl) Product(id int) (model.Product, error) {
	p, ok := s.catalog.Get(id)
	if !ok {
		return model.Product{}, ErrProductNotFound
	}
	return p, nil
}

// Cart returns the cart of sessionID.
func (s *CartServiceImpl) Cart(ctx context.Context, sessionID string) (model.CartState, error) {
	return s.store.State(ctx, sessionID)
}

// AddItem adds one unit of productID to the cart of sessionID. Unknown
// products are rejected here so the reducer never sees them.
func (s *CartServiceImpl) AddItem(ctx context.Context, sessionID string, productID int) (model.CartState, error) {
	p, err := s.Product(productID)
	if err != nil {
		metrics.RecordCartAddition("unknown", "not_found")
		return model.CartState{}, err
	}

	state, err := s.store.Dispatch(ctx, sessionID, store.AddToCart{Product: p})
	if err != nil {
		metrics.RecordCartAddition(p.Name, "error")
		return model.CartState{}, err
	}

	metrics.RecordCartAddition(p.Name, "success")
	log := logger.WithSession(sessionID)
	log.Debug().
		Int("product_id", p.ID).
		Int("total_items", state.TotalItems()).
		Float64("total_price", state.TotalPrice()).
		Msg("item added to cart")
	return state, nil
}

// Subscribe streams the cart of sessionID after every change.
func (s *CartServiceImpl) Subscribe(sessionID string) (<-chan model.CartState, func()) {
	return s.store.Subscribe(sessionID)
}
