package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/green-haven/internal/logger"
	"golang.org/x/sync/singleflight"
)

const (
	// IdempotencyKeyHeader is the HTTP header name for idempotency key (RFC standard).
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayedHeader marks a response served from the idempotency store.
	IdempotencyReplayedHeader = "X-Idempotency-Replayed"
	// IdempotencyKeyTTL is the TTL for cached idempotency responses.
	IdempotencyKeyTTL = 5 * time.Minute
)

// CachedResponse is a stored HTTP response replayed for repeated keys.
type CachedResponse struct {
	StatusCode  int       `json:"status_code"`
	ContentType string    `json:"content_type"`
	Body        []byte    `json:"body"`
	Timestamp   time.Time `json:"timestamp"`
}

// IdempotencyStore keeps responses for processed idempotency keys.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (*CachedResponse, bool)
	Set(ctx context.Context, key string, resp *CachedResponse)
}

// IdempotencyConfig holds configuration for idempotency middleware.
type IdempotencyConfig struct {
	Store   IdempotencyStore
	Enabled bool
}

// Idempotency returns a middleware that handles idempotency using the Idempotency-Key header.
// A repeated key from the same session with the same body replays the first
// successful response instead of running the handler again. Duplicates that
// arrive while the first request is still running wait for its response.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.Store == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	var inflight singleflight.Group
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost &&
			c.Request.Method != http.MethodPut &&
			c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		cacheKey, err := generateCacheKey(key, GetSessionID(c), c.Request)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		if cached, ok := cfg.Store.Get(ctx, cacheKey); ok {
			replay(c, cached)
			return
		}

		led := false
		v, _, _ := inflight.Do(cacheKey, func() (interface{}, error) {
			led = true
			writer := &responseWriter{
				ResponseWriter: c.Writer,
				body:           &bytes.Buffer{},
				statusCode:     http.StatusOK,
			}
			c.Writer = writer

			c.Next()

			resp := &CachedResponse{
				StatusCode:  writer.statusCode,
				ContentType: writer.Header().Get("Content-Type"),
				Body:        writer.body.Bytes(),
				Timestamp:   time.Now(),
			}
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				cfg.Store.Set(ctx, cacheKey, resp)
			}
			return resp, nil
		})
		if !led {
			replay(c, v.(*CachedResponse))
		}
	}
}

func replay(c *gin.Context, cached *CachedResponse) {
	log := logger.WithSession(GetSessionID(c))
	log.Debug().Str("request_id", GetRequestID(c)).Msg("Replaying idempotent response")
	c.Header(IdempotencyReplayedHeader, "true")
	c.Data(cached.StatusCode, cached.ContentType, cached.Body)
	c.Abort()
}

// generateCacheKey hashes the idempotency key with the session, method,
// path and body so keys never collide across shoppers or payloads.
func generateCacheKey(idempotencyKey, sessionID string, req *http.Request) (string, error) {
	hasher := sha256.New()
	for _, part := range []string{idempotencyKey, sessionID, req.Method, req.URL.Path} {
		hasher.Write([]byte(part))
		hasher.Write([]byte{0})
	}

	if req.Body != nil {
		bodyBytes, err := io.ReadAll(req.Body)
		if err != nil {
			return "", err
		}
		req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		hasher.Write(bodyBytes)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// responseWriter captures the response for caching.
type responseWriter struct {
	gin.ResponseWriter
	body       *bytes.Buffer
	statusCode int
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

func (w *responseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
