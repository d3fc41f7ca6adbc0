package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNewRouter_Routes(t *testing.T) {
	app := setupTestApp(t)

	want := map[string]bool{
		"GET /":                 false,
		"GET /products":         false,
		"GET /cart":             false,
		"POST /cart/items":      false,
		"GET /cart/events":      false,
		"GET /api/products":     false,
		"GET /api/products/:id": false,
		"GET /api/cart":         false,
		"GET /api/cart/history": false,
		"POST /api/cart/items":  false,
		"GET /healthz":          false,
		"GET /readyz":           false,
		"GET /metrics":          false,
		"GET /swagger/*any":     false,
		"GET /static/*filepath": false,
	}
	for _, r := range app.router.Routes() {
		key := r.Method + " " + r.Path
		if _, ok := want[key]; ok {
			want[key] = true
		}
	}
	for route, found := range want {
		assert.True(t, found, route)
	}
}

func TestNewRouter_Infrastructure(t *testing.T) {
	app := setupTestApp(t)
	cl := app.client()

	t.Run("metrics", func(t *testing.T) {
		cl.get("/products")
		w := cl.get("/metrics")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "http_requests_total")
	})

	t.Run("static assets", func(t *testing.T) {
		w := cl.get("/static/img/aloe.svg")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "<svg")
	})

	t.Run("health skips the session", func(t *testing.T) {
		w := app.client().get("/healthz")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("request id header", func(t *testing.T) {
		w := cl.get("/")
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("unknown path", func(t *testing.T) {
		w := cl.get("/checkout")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestNewRouter_SwaggerBasicAuth(t *testing.T) {
	app := setupTestApp(t, func(cfg *RouterConfig) {
		cfg.SwaggerUser = "admin"
		cfg.SwaggerPass = "secret"
	})

	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.SetBasicAuth("admin", "secret")
	w = httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNewRouter_RateLimitPerSession(t *testing.T) {
	app := setupTestApp(t, func(cfg *RouterConfig) {
		cfg.RateLimit = 2
	})
	cl := app.client()

	// the first request has no cookie yet and draws from the IP budget
	codes := []int{cl.get("/products").Code, cl.get("/products").Code, cl.get("/products").Code, cl.get("/products").Code}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	w := app.client().get("/products")
	assert.Equal(t, http.StatusOK, w.Code, "another shopper behind the same IP is not limited by the first")
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))
}

func TestNewRouter_RateLimitWithoutCookie(t *testing.T) {
	var started int
	app := setupTestApp(t, func(cfg *RouterConfig) {
		cfg.RateLimit = 2
		cfg.Session.OnStart = func(*gin.Context, string) { started++ }
	})

	var rejected int
	for i := 0; i < 20; i++ {
		// a fresh client never replays the cookie it was given
		w := app.client().get("/api/products")
		if w.Code == http.StatusTooManyRequests {
			rejected++
			assert.Empty(t, w.Result().Cookies(), "rejected requests are not given a session")
		}
	}

	assert.Equal(t, 18, rejected)
	assert.Equal(t, 2, started)
}
