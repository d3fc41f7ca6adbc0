package app

import (
	"github.com/guttosm/green-haven/internal/catalog"
	"github.com/guttosm/green-haven/internal/service"
)

// ServiceComponents holds service-related components.
type ServiceComponents struct {
	Cart service.CartService
}

// InitializeServices initializes business logic services.
func InitializeServices(sessions *SessionComponents) *ServiceComponents {
	return &ServiceComponents{
		Cart: service.NewCartService(catalog.Default(), sessions.Store),
	}
}
