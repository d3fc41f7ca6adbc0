package http

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/green-haven/internal/domain/dto"
	"github.com/guttosm/green-haven/internal/domain/model"
	"github.com/guttosm/green-haven/internal/i18n"
	"github.com/guttosm/green-haven/internal/logger"
	"github.com/guttosm/green-haven/internal/middleware"
	"github.com/guttosm/green-haven/internal/service"
	"github.com/guttosm/green-haven/internal/view"
)

const (
	// CartEventsPath streams cart summaries. It must stay uncompressed and
	// outside the request timeout.
	CartEventsPath = "/cart/events"

	// CartEventName is the SSE event carrying a rendered cart summary.
	CartEventName = "cart"

	defaultKeepAlive = 15 * time.Second
)

// ViewHandler serves the HTML storefront.
type ViewHandler struct {
	cart        service.CartService
	renderer    *view.Renderer
	auditLogger *middleware.AsyncLogger
	keepAlive   time.Duration
}

// ViewOption configures a ViewHandler.
type ViewOption func(*ViewHandler)

// WithKeepAlive sets how often an idle event stream sends a ping.
func WithKeepAlive(d time.Duration) ViewOption {
	return func(h *ViewHandler) {
		if d > 0 {
			h.keepAlive = d
		}
	}
}

// NewViewHandler creates a ViewHandler. auditLogger may be nil.
func NewViewHandler(cart service.CartService, renderer *view.Renderer, auditLogger *middleware.AsyncLogger, opts ...ViewOption) *ViewHandler {
	h := &ViewHandler{
		cart:        cart,
		renderer:    renderer,
		auditLogger: auditLogger,
		keepAlive:   defaultKeepAlive,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes registers the three views, the add form and the event stream.
func (h *ViewHandler) RegisterRoutes(rg *gin.RouterGroup, cfg *RouterConfig) {
	rg.GET("/", h.Landing)
	rg.GET("/products", h.Products)
	rg.GET("/cart", middleware.Timeout(cfg.RequestTimeout), h.Cart)
	rg.POST("/cart/items", middleware.Timeout(cfg.RequestTimeout), h.AddItem)
	rg.GET(CartEventsPath, h.CartEvents)
}

// Landing renders the welcome page.
func (h *ViewHandler) Landing(c *gin.Context) {
	c.Render(http.StatusOK, h.renderer.Page(view.PageLanding, view.PageData{
		Locale: i18n.GetLocale(c),
	}))
}

// Products renders the catalog listing.
func (h *ViewHandler) Products(c *gin.Context) {
	c.Render(http.StatusOK, h.renderer.Page(view.PageProducts, view.PageData{
		Locale:   i18n.GetLocale(c),
		Products: h.cart.Products(),
	}))
}

// Cart renders the cart summary of the current session.
func (h *ViewHandler) Cart(c *gin.Context) {
	state, err := h.cart.Cart(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Render(http.StatusOK, h.renderer.Page(view.PageCart, view.PageData{
		Locale: i18n.GetLocale(c),
		Cart:   state,
	}))
}

// AddItem handles the "Add to Cart" form and sends the shopper back to the
// listing.
func (h *ViewHandler) AddItem(c *gin.Context) {
	req, err := BuildFormRequest[dto.AddToCartRequest](c)
	if err == nil {
		err = validate(req)
	}
	if err != nil {
		NewResponseBuilder(c).Error(http.StatusBadRequest, i18n.ErrKeyInvalidProductID, err)
		return
	}

	if _, ok := addItem(c, h.cart, h.auditLogger, req.ProductID); !ok {
		return
	}
	c.Redirect(http.StatusSeeOther, "/products")
}

// CartEvents streams the rendered cart summary: once on connect and again
// after every change to the session's cart.
func (h *ViewHandler) CartEvents(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := middleware.GetSessionID(c)
	locale := i18n.GetLocale(c)

	// subscribe before the snapshot so no change falls in between
	updates, unsubscribe := h.cart.Subscribe(sessionID)
	defer unsubscribe()

	state, err := h.cart.Cart(ctx, sessionID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	if !h.sendSummary(c, locale, state) {
		return
	}
	c.Writer.Flush()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	c.Stream(func(_ io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case state, ok := <-updates:
			if !ok {
				return false
			}
			return h.sendSummary(c, locale, state)
		case <-ticker.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		}
	})
}

func (h *ViewHandler) sendSummary(c *gin.Context, locale string, state model.CartState) bool {
	summary, err := h.renderer.CartSummary(locale, state)
	if err != nil {
		log := logger.WithSession(middleware.GetSessionID(c))
		log.Error().Err(err).Msg("Failed to render cart summary")
		return false
	}
	c.SSEvent(CartEventName, summary)
	return true
}
