package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/green-haven/internal/catalog"
	"github.com/guttosm/green-haven/internal/middleware"
	"github.com/guttosm/green-haven/internal/repository"
	"github.com/guttosm/green-haven/internal/service"
	"github.com/guttosm/green-haven/internal/session"
	"github.com/guttosm/green-haven/internal/store"
	"github.com/guttosm/green-haven/internal/view"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	router *gin.Engine
	cart   service.CartService
	health *HealthHandler
}

func setupTestApp(t *testing.T, mutate ...func(*RouterConfig)) *testApp {
	t.Helper()

	repo := repository.NewMemoryCartRepository(100, time.Hour, 4)
	t.Cleanup(repo.Stop)
	cart := service.NewCartService(catalog.Default(), store.New(repo, store.NewHub()))

	codec, err := session.NewCodec("test-secret", time.Hour)
	require.NoError(t, err)

	idem := middleware.NewMemoryIdempotencyStore(time.Minute)
	t.Cleanup(idem.Stop)

	cfg := DefaultRouterConfig()
	cfg.Session = middleware.SessionConfig{Codec: codec}
	cfg.IdempotencyStore = idem
	for _, m := range mutate {
		m(&cfg)
	}
	if cfg.RateLimit > 0 {
		cfg.RateLimiter = middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
		t.Cleanup(cfg.RateLimiter.Stop)
	}

	health := NewHealthHandler()
	views := NewViewHandler(cart, view.MustNew(), nil, WithKeepAlive(50*time.Millisecond))
	return &testApp{
		router: NewRouter(NewHandler(cart, nil, nil), views, health, cfg),
		cart:   cart,
		health: health,
	}
}

// client replays the session cookie like a browser.
type client struct {
	app    *testApp
	cookie *http.Cookie
}

func (a *testApp) client() *client {
	return &client{app: a}
}

func (cl *client) do(req *http.Request) *httptest.ResponseRecorder {
	if cl.cookie != nil {
		req.AddCookie(cl.cookie)
	}
	w := httptest.NewRecorder()
	cl.app.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.DefaultSessionCookie {
			cl.cookie = c
		}
	}
	return w
}

func (cl *client) get(path string) *httptest.ResponseRecorder {
	return cl.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (cl *client) postJSON(path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return cl.do(req)
}

func (cl *client) postForm(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return cl.do(req)
}
