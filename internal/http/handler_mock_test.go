package http

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/guttosm/green-haven/internal/domain/dto"
	"github.com/guttosm/green-haven/internal/domain/model"
	"github.com/guttosm/green-haven/internal/middleware"
	"github.com/guttosm/green-haven/internal/mocks"
	"github.com/guttosm/green-haven/internal/session"
	"github.com/guttosm/green-haven/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("session store unavailable")

func setupMockApp(t *testing.T, cart *mocks.MockCartService) *testApp {
	t.Helper()

	codec, err := session.NewCodec("test-secret", time.Hour)
	require.NoError(t, err)

	cfg := DefaultRouterConfig()
	cfg.Session = middleware.SessionConfig{Codec: codec}
	idem := middleware.NewMemoryIdempotencyStore(time.Minute)
	t.Cleanup(idem.Stop)
	cfg.IdempotencyStore = idem

	health := NewHealthHandler()
	views := NewViewHandler(cart, view.MustNew(), nil)
	return &testApp{
		router: NewRouter(NewHandler(cart, nil, nil), views, health, cfg),
		cart:   cart,
		health: health,
	}
}

func TestHandler_StoreFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*mocks.MockCartService)
		call  func(*client) int
	}{
		{
			name: "api cart read",
			setup: func(m *mocks.MockCartService) {
				m.On("Cart", mock.Anything, mock.Anything).Return(model.CartState{}, errStoreDown)
			},
			call: func(cl *client) int {
				w := cl.get("/api/cart")
				assert.Equal(t, dto.ErrCodeInternal, decodeError(t, w).Error)
				assert.NotContains(t, w.Body.String(), errStoreDown.Error())
				return w.Code
			},
		},
		{
			name: "api add item",
			setup: func(m *mocks.MockCartService) {
				m.On("AddItem", mock.Anything, mock.Anything, 1).Return(model.CartState{}, errStoreDown)
			},
			call: func(cl *client) int {
				w := cl.postJSON("/api/cart/items", `{"product_id":1}`)
				assert.Equal(t, dto.ErrCodeInternal, decodeError(t, w).Error)
				return w.Code
			},
		},
		{
			name: "cart page",
			setup: func(m *mocks.MockCartService) {
				m.On("Cart", mock.Anything, mock.Anything).Return(model.CartState{}, errStoreDown)
			},
			call: func(cl *client) int {
				return cl.get("/cart").Code
			},
		},
		{
			name: "form add item",
			setup: func(m *mocks.MockCartService) {
				m.On("AddItem", mock.Anything, mock.Anything, 2).Return(model.CartState{}, errStoreDown)
			},
			call: func(cl *client) int {
				return cl.postForm("/cart/items", "product_id=2").Code
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := &mocks.MockCartService{}
			tt.setup(cart)
			app := setupMockApp(t, cart)

			status := tt.call(app.client())

			assert.Equal(t, http.StatusInternalServerError, status)
			cart.AssertExpectations(t)
		})
	}
}

func TestHandler_ProductsFromService(t *testing.T) {
	cart := &mocks.MockCartService{}
	cart.On("Products").Return([]model.Product{{ID: 7, Name: "Fiddle Leaf Fig", Price: 12.5, Image: "/static/img/fig.svg"}})
	app := setupMockApp(t, cart)

	w := app.client().get("/api/products")

	require.Equal(t, http.StatusOK, w.Code)
	products := decodeData[[]model.Product](t, w)
	require.Len(t, products, 1)
	assert.Equal(t, 12.5, products[0].Price)

	page := app.client().get("/products")
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "Fiddle Leaf Fig")
	assert.Contains(t, page.Body.String(), "$12.5")
	cart.AssertExpectations(t)
}
