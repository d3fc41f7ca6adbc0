package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIdempotentRouter(store IdempotencyStore, sessionID string, calls *int32) *gin.Engine {
	router := gin.New()
	router.Use(withSession(sessionID), Idempotency(IdempotencyConfig{Store: store, Enabled: true}))
	router.POST("/api/cart/items", func(c *gin.Context) {
		n := atomic.AddInt32(calls, 1)
		c.JSON(http.StatusOK, gin.H{"total_items": n})
	})
	router.POST("/api/fail", func(c *gin.Context) {
		atomic.AddInt32(calls, 1)
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	})
	return router
}

func postItem(router *gin.Engine, path, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIdempotency(t *testing.T) {
	t.Run("replays response for repeated key", func(t *testing.T) {
		store := NewMemoryIdempotencyStore(time.Minute)
		defer store.Stop()
		var calls int32
		router := newIdempotentRouter(store, "s1", &calls)

		first := postItem(router, "/api/cart/items", "key-1", `{"product_id":1}`)
		second := postItem(router, "/api/cart/items", "key-1", `{"product_id":1}`)

		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		assert.Equal(t, http.StatusOK, second.Code)
		assert.JSONEq(t, first.Body.String(), second.Body.String())
		assert.Equal(t, "true", second.Header().Get(IdempotencyReplayedHeader))
		assert.Contains(t, second.Header().Get("Content-Type"), "application/json")
		assert.Empty(t, first.Header().Get(IdempotencyReplayedHeader))
	})

	t.Run("different body runs handler again", func(t *testing.T) {
		store := NewMemoryIdempotencyStore(time.Minute)
		defer store.Stop()
		var calls int32
		router := newIdempotentRouter(store, "s1", &calls)

		postItem(router, "/api/cart/items", "key-1", `{"product_id":1}`)
		postItem(router, "/api/cart/items", "key-1", `{"product_id":2}`)

		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("same key from another session is independent", func(t *testing.T) {
		store := NewMemoryIdempotencyStore(time.Minute)
		defer store.Stop()
		var calls int32

		postItem(newIdempotentRouter(store, "s1", &calls), "/api/cart/items", "key-1", `{"product_id":1}`)
		postItem(newIdempotentRouter(store, "s2", &calls), "/api/cart/items", "key-1", `{"product_id":1}`)

		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
		assert.Equal(t, 2, store.Len())
	})

	t.Run("requests without key are not cached", func(t *testing.T) {
		store := NewMemoryIdempotencyStore(time.Minute)
		defer store.Stop()
		var calls int32
		router := newIdempotentRouter(store, "s1", &calls)

		postItem(router, "/api/cart/items", "", `{"product_id":1}`)
		postItem(router, "/api/cart/items", "", `{"product_id":1}`)

		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
		assert.Equal(t, 0, store.Len())
	})

	t.Run("error responses are not cached", func(t *testing.T) {
		store := NewMemoryIdempotencyStore(time.Minute)
		defer store.Stop()
		var calls int32
		router := newIdempotentRouter(store, "s1", &calls)

		postItem(router, "/api/fail", "key-1", `{}`)
		w := postItem(router, "/api/fail", "key-1", `{}`)

		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("handler still reads the body", func(t *testing.T) {
		store := NewMemoryIdempotencyStore(time.Minute)
		defer store.Stop()

		router := gin.New()
		router.Use(Idempotency(IdempotencyConfig{Store: store, Enabled: true}))
		router.POST("/echo", func(c *gin.Context) {
			body, _ := c.GetRawData()
			c.String(http.StatusOK, string(body))
		})

		w := postItem(router, "/echo", "key-1", `{"product_id":3}`)
		assert.Equal(t, `{"product_id":3}`, w.Body.String())
	})
}

func TestIdempotency_ConcurrentDuplicatesRunOnce(t *testing.T) {
	store := NewMemoryIdempotencyStore(time.Minute)
	defer store.Stop()

	var calls int32
	release := make(chan struct{})
	router := gin.New()
	router.Use(withSession("s-double-click"), Idempotency(IdempotencyConfig{Store: store, Enabled: true}))
	router.POST("/api/cart/items", func(c *gin.Context) {
		atomic.AddInt32(&calls, 1)
		<-release
		c.JSON(http.StatusOK, gin.H{"total_items": 1})
	})

	const clicks = 5
	results := make(chan *httptest.ResponseRecorder, clicks)
	for i := 0; i < clicks; i++ {
		go func() {
			results <- postItem(router, "/api/cart/items", "dbl", `{"product_id":2}`)
		}()
	}

	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)

	replayed := 0
	for i := 0; i < clicks; i++ {
		w := <-results
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"total_items":1}`, w.Body.String())
		if w.Header().Get(IdempotencyReplayedHeader) == "true" {
			replayed++
		}
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, clicks-1, replayed)
}

func TestIdempotency_Disabled(t *testing.T) {
	var calls int32
	router := gin.New()
	router.Use(Idempotency(IdempotencyConfig{Enabled: false}))
	router.POST("/api/cart/items", func(c *gin.Context) {
		atomic.AddInt32(&calls, 1)
		c.Status(http.StatusOK)
	})

	postItem(router, "/api/cart/items", "key-1", `{}`)
	postItem(router, "/api/cart/items", "key-1", `{}`)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestIdempotency_RedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	store := NewRedisIdempotencyStore(client, time.Minute)
	var calls int32

	// two routers stand in for two instances sharing Redis
	postItem(newIdempotentRouter(store, "s1", &calls), "/api/cart/items", "key-1", `{"product_id":1}`)
	w := postItem(newIdempotentRouter(store, "s1", &calls), "/api/cart/items", "key-1", `{"product_id":1}`)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, "true", w.Header().Get(IdempotencyReplayedHeader))
	require.Len(t, mr.Keys(), 1)
	assert.True(t, strings.HasPrefix(mr.Keys()[0], idempotencyKeyPrefix))
	assert.Equal(t, time.Minute, mr.TTL(mr.Keys()[0]))
}

func TestRedisIdempotencyStore_Failures(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()
	store := NewRedisIdempotencyStore(client, 0)
	ctx := context.Background()

	t.Run("corrupt payload is a miss", func(t *testing.T) {
		require.NoError(t, mr.Set(idempotencyKeyPrefix+"bad", "not-json"))
		_, ok := store.Get(ctx, "bad")
		assert.False(t, ok)
	})

	t.Run("unreachable redis is a miss", func(t *testing.T) {
		mr.Close()
		store.Set(ctx, "k", &CachedResponse{StatusCode: http.StatusOK})
		_, ok := store.Get(ctx, "k")
		assert.False(t, ok)
	})
}
