package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/green-haven/config"
	"github.com/guttosm/green-haven/internal/domain/model"
	"github.com/guttosm/green-haven/internal/http"
	"github.com/guttosm/green-haven/internal/logger"
	"github.com/guttosm/green-haven/internal/middleware"
	"github.com/guttosm/green-haven/internal/repository"
	"github.com/guttosm/green-haven/internal/service"
	"github.com/guttosm/green-haven/internal/session"
	"github.com/guttosm/green-haven/internal/view"
)

// RouterComponents holds router-related components.
type RouterComponents struct {
	Handler       *http.Handler
	Views         *http.ViewHandler
	HealthHandler *http.HealthHandler
	Config        http.RouterConfig
}

// InitializeRouter initializes HTTP handlers and router configuration.
func InitializeRouter(
	cfg config.Config,
	services *ServiceComponents,
	sessions *SessionComponents,
	dbComponents *DatabaseComponents,
	auditLogger *middleware.AsyncLogger,
) (*RouterComponents, error) {
	codec, err := session.NewCodec(cfg.Session.Secret, cfg.Session.TTL)
	if err != nil {
		return nil, fmt.Errorf("session codec: %w", err)
	}

	healthHandler := http.NewHealthHandler()
	if sessions.RedisRepo != nil {
		healthHandler.RegisterChecker("redis", sessions.RedisRepo)
		healthHandler.RegisterCircuitBreaker("redis_sessions", sessions.CircuitBreaker)
	}
	if sessions.MemoryRepo != nil {
		healthHandler.RegisterStats("session_store", memoryStoreStats(sessions.MemoryRepo))
	}
	var logs service.LoggingService
	if dbComponents != nil {
		logs = dbComponents.LoggingService
		healthHandler.RegisterChecker("mongodb", dbComponents.DB)
		healthHandler.RegisterCircuitBreaker("mongodb_logs", dbComponents.LogsCircuitBreaker)
	}
	if auditLogger != nil {
		healthHandler.RegisterStats("audit_log", auditLogStats(auditLogger))
	}

	routerCfg := http.RouterConfig{
		RateLimit:      cfg.Server.RateLimit,
		RateWindow:     cfg.Server.RateWindow,
		RequestTimeout: cfg.Server.RequestTimeout,
		CORSOrigins:    cfg.Server.CORSOrigins,
		SwaggerUser:    cfg.Server.SwaggerUser,
		SwaggerPass:    cfg.Server.SwaggerPass,
		Session: middleware.SessionConfig{
			Codec:      codec,
			CookieName: cfg.Session.CookieName,
			Secure:     cfg.Session.Secure,
			OnStart: func(c *gin.Context, sessionID string) {
				log := logger.WithSession(sessionID)
				log.Debug().Msg("Session started")
				middleware.AuditLog(auditLogger, c, model.ActionSessionStart, "Session started", nil)
			},
		},
		IdempotencyStore: sessions.IdempotencyStore,
		AuditLogger:      auditLogger,
	}
	if cfg.Server.RateLimit > 0 {
		routerCfg.RateLimiter = middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateWindow)
		healthHandler.RegisterStats("rate_limiter", rateLimiterStats(routerCfg.RateLimiter))
	}

	return &RouterComponents{
		Handler:       http.NewHandler(services.Cart, logs, auditLogger),
		Views:         http.NewViewHandler(services.Cart, view.MustNew(), auditLogger),
		HealthHandler: healthHandler,
		Config:        routerCfg,
	}, nil
}

func memoryStoreStats(repo *repository.MemoryCartRepository) http.StatsFunc {
	return func() map[string]interface{} {
		st := repo.Stats()
		return map[string]interface{}{
			"size":      st.Size,
			"capacity":  st.Capacity,
			"hits":      st.Hits,
			"misses":    st.Misses,
			"evictions": st.Evictions,
		}
	}
}

func rateLimiterStats(rl *middleware.ShardedRateLimiter) http.StatsFunc {
	return func() map[string]interface{} {
		visitors, perShard := rl.Stats()
		return map[string]interface{}{
			"visitors":  visitors,
			"per_shard": perShard,
		}
	}
}

func auditLogStats(al *middleware.AsyncLogger) http.StatsFunc {
	return func() map[string]interface{} {
		enqueued, dropped, written, failed := al.Stats()
		return map[string]interface{}{
			"enqueued": enqueued,
			"dropped":  dropped,
			"written":  written,
			"errors":   failed,
		}
	}
}
