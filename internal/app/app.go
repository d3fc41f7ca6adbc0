// Package app provides application initialization and dependency injection.
package app

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/green-haven/config"
	"github.com/guttosm/green-haven/internal/http"
	"github.com/guttosm/green-haven/internal/middleware"
	"github.com/rs/zerolog/log"
)

// App is the wired storefront together with the resources it must release.
type App struct {
	Router *gin.Engine

	sessions    *SessionComponents
	database    *DatabaseComponents
	auditLogger *middleware.AsyncLogger
	limiter     *middleware.ShardedRateLimiter
}

// InitializeApp creates and wires all application dependencies.
func InitializeApp(cfg config.Config) (*App, error) {
	InitializeLogger(cfg.Log)
	warnInsecureDefaults(cfg)

	sessions, err := InitializeSessionStore(cfg)
	if err != nil {
		return nil, err
	}

	// the audit log is optional; nil components disable it
	dbComponents := InitializeDatabase(cfg.Database)
	var auditLogger *middleware.AsyncLogger
	if dbComponents != nil {
		auditLogger = middleware.NewAsyncLogger(dbComponents.LoggingService, middleware.DefaultAsyncLoggerConfig())
	}

	services := InitializeServices(sessions)

	routerComponents, err := InitializeRouter(cfg, services, sessions, dbComponents, auditLogger)
	a := &App{
		sessions:    sessions,
		database:    dbComponents,
		auditLogger: auditLogger,
	}
	if err != nil {
		_ = a.Close(context.Background())
		return nil, err
	}

	a.limiter = routerComponents.Config.RateLimiter
	a.Router = http.NewRouter(routerComponents.Handler, routerComponents.Views, routerComponents.HealthHandler, routerComponents.Config)
	return a, nil
}

// Close flushes the audit log and releases the session store and database.
func (a *App) Close(ctx context.Context) error {
	if a.limiter != nil {
		a.limiter.Stop()
	}
	a.auditLogger.Stop()
	a.sessions.Close()

	var errs []error
	if a.database != nil {
		if err := a.database.DB.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		log.Error().Err(err).Msg("Failed to release resources")
		return err
	}
	return nil
}
