package app

import (
	"context"
	"time"

	"github.com/guttosm/green-haven/config"
	"github.com/guttosm/green-haven/internal/circuitbreaker"
	"github.com/guttosm/green-haven/internal/repository"
	"github.com/guttosm/green-haven/internal/service"
	"github.com/rs/zerolog/log"
)

// DatabaseComponents holds the audit log database components.
type DatabaseComponents struct {
	DB                 *repository.MongoDB
	LoggingService     service.LoggingService
	LogsCircuitBreaker *circuitbreaker.CircuitBreaker
}

// InitializeDatabase connects to MongoDB for the audit log.
// Returns nil if the database is disabled or the connection fails.
func InitializeDatabase(cfg config.DatabaseConfig) *DatabaseComponents {
	if !cfg.Enabled {
		return nil
	}

	db, err := repository.NewMongoDB(cfg.URI, cfg.DatabaseName,
		repository.WithPoolSize(min(2, cfg.MaxPoolSize), cfg.MaxPoolSize),
		repository.WithConnectTimeout(cfg.ConnectTimeout),
	)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to MongoDB - continuing without audit log")
		return nil
	}

	log.Info().Str("database", cfg.DatabaseName).Msg("Connected to MongoDB")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.SetLogsTTL(ctx, cfg.LogsTTL); err != nil {
		log.Warn().Err(err).Msg("Failed to set logs TTL index")
	}

	logsCB := newCircuitBreaker("mongodb-logs", cfg)
	logsRepo := repository.NewLogsRepositoryWithCircuitBreaker(repository.NewLogsRepository(db), logsCB)

	return &DatabaseComponents{
		DB:                 db,
		LoggingService:     service.NewLoggingService(logsRepo),
		LogsCircuitBreaker: logsCB,
	}
}
