package app

import (
	"github.com/guttosm/green-haven/config"
	"github.com/guttosm/green-haven/internal/logger"
	"github.com/rs/zerolog/log"
)

// InitializeLogger initializes the JSON logger.
func InitializeLogger(cfg config.LogConfig) {
	logger.Init(cfg.Level, cfg.Pretty)
}

// warnInsecureDefaults flags settings that are only safe in development.
func warnInsecureDefaults(cfg config.Config) {
	if cfg.Session.UsesDefaultSecret() {
		log.Warn().Msg("SESSION_SECRET is not set, session cookies are signed with the built-in default")
	}
}
