// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/green-haven/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

// MockCartService is a mock of service.CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) Products() []model.Product {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]model.Product)
}

func (m *MockCartService) Product(id int) (model.Product, error) {
	args := m.Called(id)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *MockCartService) Cart(ctx context.Context, sessionID string) (model.CartState, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(model.CartState), args.Error(1)
}

func (m *MockCartService) AddItem(ctx context.Context, sessionID string, productID int) (model.CartState, error) {
	args := m.Called(ctx, sessionID, productID)
	return args.Get(0).(model.CartState), args.Error(1)
}

func (m *MockCartService) Subscribe(sessionID string) (<-chan model.CartState, func()) {
	args := m.Called(sessionID)
	var ch <-chan model.CartState
	if v := args.Get(0); v != nil {
		ch = v.(<-chan model.CartState)
	}
	cancel := func() {}
	if v := args.Get(1); v != nil {
		cancel = v.(func())
	}
	return ch, cancel
}
