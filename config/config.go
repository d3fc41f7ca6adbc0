// Package config provides configuration management for the storefront.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Session store backends.
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// DefaultSessionSecret signs session cookies when SESSION_SECRET is unset.
// Anyone who knows it can forge a shopper's cookie.
const DefaultSessionSecret = "change-me-in-production"

// Config holds the complete application configuration.
type Config struct {
	Server   ServerConfig
	Session  SessionConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string
	RateLimit      int
	RateWindow     time.Duration
	RequestTimeout time.Duration
	CORSOrigins    []string
	SwaggerUser    string
	SwaggerPass    string
}

// SessionConfig holds shopper session configuration.
type SessionConfig struct {
	Store      string
	TTL        time.Duration
	CookieName string
	Secret     string
	Secure     bool
	Capacity   int
}

// UsesDefaultSecret reports whether cookies are signed with the built-in secret.
func (s SessionConfig) UsesDefaultSecret() bool {
	return s.Secret == DefaultSessionSecret
}

// RedisConfig holds Redis connection settings for the shared session store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// DatabaseConfig holds MongoDB configuration for the audit log.
type DatabaseConfig struct {
	URI          string
	DatabaseName string
	LogsTTL      time.Duration
	Enabled      bool
	// MaxPoolSize caps open connections to the audit store.
	MaxPoolSize    uint64
	ConnectTimeout time.Duration
	// CircuitBreaker configuration
	CircuitBreakerFailureThreshold int
	CircuitBreakerSuccessThreshold int
	CircuitBreakerTimeout          time.Duration
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string
	Pretty bool
}

// Load creates a Config from environment variables.
func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			RateLimit:      getEnvInt("RATE_LIMIT", 100),
			RateWindow:     getEnvDuration("RATE_WINDOW", time.Minute),
			RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
			CORSOrigins:    parseCORSOrigins(os.Getenv("CORS_ORIGINS")),
			SwaggerUser:    getEnv("SWAGGER_USER", ""),
			SwaggerPass:    getEnv("SWAGGER_PASS", ""),
		},
		Session: SessionConfig{
			Store:      parseSessionStore(os.Getenv("SESSION_STORE")),
			TTL:        getEnvDuration("SESSION_TTL", 24*time.Hour),
			CookieName: getEnv("SESSION_COOKIE", "gh_session"),
			Secret:     getEnv("SESSION_SECRET", DefaultSessionSecret),
			Secure:     getEnvBool("SESSION_SECURE", false),
			Capacity:   getEnvInt("SESSION_CAPACITY", 10000),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Database: DatabaseConfig{
			URI:                            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			DatabaseName:                   getEnv("MONGODB_DATABASE", "green_haven"),
			LogsTTL:                        getEnvDuration("MONGODB_LOGS_TTL", 30*24*time.Hour),
			Enabled:                        getEnvBool("MONGODB_ENABLED", false),
			MaxPoolSize:                    uint64(max(getEnvInt("MONGODB_MAX_POOL_SIZE", 20), 1)),
			ConnectTimeout:                 getEnvDuration("MONGODB_CONNECT_TIMEOUT", 10*time.Second),
			CircuitBreakerFailureThreshold: getEnvInt("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
			CircuitBreakerSuccessThreshold: getEnvInt("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 2),
			CircuitBreakerTimeout:          getEnvDuration("CIRCUIT_BREAKER_TIMEOUT", 30*time.Second),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvBool("LOG_PRETTY", false),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

// parseSessionStore falls back to the in-process store for unknown values.
func parseSessionStore(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case SessionStoreRedis:
		return SessionStoreRedis
	default:
		return SessionStoreMemory
	}
}

func parseCORSOrigins(s string) []string {
	// Default origins for local development
	defaults := []string{
		"http://localhost:8080",
		"http://127.0.0.1:8080",
	}
	if s == "" {
		return defaults
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts)+len(defaults))
	result = append(result, defaults...)
	for _, p := range parts {
		if origin := strings.TrimSpace(p); origin != "" {
			result = append(result, origin)
		}
	}
	return result
}
