package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var defaultCORSOrigins = []string{"http://localhost:8080", "http://127.0.0.1:8080"}

// CORS returns a middleware allowing the given origins to call the JSON API
// with credentials, so the session cookie travels with the request.
func CORS(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		origins = defaultCORSOrigins
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept", "Accept-Encoding", "Accept-Language", "Cache-Control", "X-Requested-With", IdempotencyKeyHeader, RequestIDHeader},
		ExposeHeaders:    []string{RequestIDHeader, IdempotencyReplayedHeader},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	})
}
