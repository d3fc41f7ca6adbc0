// Package http wires the storefront's HTML views, JSON API and
// infrastructure endpoints into a gin engine.
package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/green-haven/internal/metrics"
	"github.com/guttosm/green-haven/internal/middleware"
	"github.com/guttosm/green-haven/internal/view"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RouterConfig holds router configuration options.
type RouterConfig struct {
	RateLimit        int
	RateWindow       time.Duration
	RequestTimeout   time.Duration
	CORSOrigins      []string
	SwaggerUser      string
	SwaggerPass      string
	Session          middleware.SessionConfig
	IdempotencyStore middleware.IdempotencyStore
	AuditLogger      *middleware.AsyncLogger
	// RateLimiter is created from RateLimit and RateWindow when nil.
	RateLimiter *middleware.ShardedRateLimiter
}

// DefaultRouterConfig returns the default router configuration.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		RateLimit:      100,
		RateWindow:     time.Minute,
		RequestTimeout: middleware.DefaultRequestTimeout,
	}
}

// NewRouter creates and configures the Gin router for the storefront.
func NewRouter(handler *Handler, views *ViewHandler, healthHandler *HealthHandler, cfg RouterConfig) *gin.Engine {
	router := gin.New()

	configureGlobalMiddleware(router, &cfg)
	registerInfrastructureRoutes(router, healthHandler, &cfg)

	// everything below belongs to a shopper session
	shop := router.Group("/")
	if cfg.RateLimiter == nil && cfg.RateLimit > 0 {
		cfg.RateLimiter = middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	}
	if cfg.RateLimiter != nil {
		shop.Use(cfg.RateLimiter.SessionRateLimit(cfg.Session))
	}
	shop.Use(middleware.Session(cfg.Session))

	views.RegisterRoutes(shop, &cfg)

	api := shop.Group("/api")
	api.Use(middleware.Timeout(cfg.RequestTimeout))
	handler.RegisterRoutes(api, &cfg)

	return router
}

// configureGlobalMiddleware sets up middleware applied to all routes.
func configureGlobalMiddleware(router *gin.Engine, cfg *RouterConfig) {
	router.Use(
		middleware.CORS(cfg.CORSOrigins),
		middleware.RequestID(),
		middleware.Recovery(),
		metrics.PrometheusMiddleware(),
		middleware.Compression(CartEventsPath),
		middleware.RequestLogger(cfg.AuditLogger),
		middleware.ErrorHandler(),
	)
}

// registerInfrastructureRoutes registers health, metrics, static assets and documentation routes.
func registerInfrastructureRoutes(router *gin.Engine, healthHandler *HealthHandler, cfg *RouterConfig) {
	healthHandler.Register(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.StaticFS("/static", view.Static())

	// Swagger with optional basic auth
	if cfg.SwaggerUser != "" && cfg.SwaggerPass != "" {
		authorized := router.Group("/swagger", gin.BasicAuth(gin.Accounts{
			cfg.SwaggerUser: cfg.SwaggerPass,
		}))
		authorized.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	} else {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}
