package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/green-haven/internal/domain/dto"
	"github.com/guttosm/green-haven/internal/domain/model"
	"github.com/guttosm/green-haven/internal/i18n"
	"github.com/guttosm/green-haven/internal/middleware"
	"github.com/guttosm/green-haven/internal/service"
	"golang.org/x/sync/errgroup"
)

// ErrHistoryUnavailable is returned by the cart history when the audit log
// is disabled.
var ErrHistoryUnavailable = errors.New("cart history requires the audit log")

// Handler provides the JSON API handlers.
type Handler struct {
	cart        service.CartService
	logs        service.LoggingService
	auditLogger *middleware.AsyncLogger
}

// NewHandler creates a new Handler instance. logs and auditLogger are nil
// when the audit log is disabled.
func NewHandler(cart service.CartService, logs service.LoggingService, auditLogger *middleware.AsyncLogger) *Handler {
	return &Handler{
		cart:        cart,
		logs:        logs,
		auditLogger: auditLogger,
	}
}

// RegisterRoutes registers the API routes on the /api group.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, cfg *RouterConfig) {
	api.GET("/products", h.ListProducts)
	api.GET("/products/:id", h.GetProduct)
	api.GET("/cart", h.GetCart)
	api.GET("/cart/history", h.GetCartHistory)
	api.POST("/cart/items", middleware.Idempotency(middleware.IdempotencyConfig{
		Store:   cfg.IdempotencyStore,
		Enabled: cfg.IdempotencyStore != nil,
	}), h.AddCartItem)
}

// ListProducts handles GET /api/products.
//
// @Summary      List products
// @Description  Returns the full plant catalog in display order.
// @Tags         Catalog
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=[]model.Product} "Catalog"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Router       /api/products [get]
func (h *Handler) ListProducts(c *gin.Context) {
	NewResponseBuilder(c).SuccessOK(h.cart.Products())
}

// GetProduct handles GET /api/products/:id.
//
// @Summary      Get product
// @Description  Returns one catalog product.
// @Tags         Catalog
// @Produce      json
// @Param        id path int true "Product ID"
// @Success      200 {object} dto.SuccessResponse{data=model.Product} "Product"
// @Failure      400 {object} dto.ErrorResponse "Bad request - id is not an integer"
// @Failure      404 {object} dto.ErrorResponse "Not found - unknown product"
// @Router       /api/products/{id} [get]
func (h *Handler) GetProduct(c *gin.Context) {
	builder := NewResponseBuilder(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidProductID, err)
		return
	}

	product, err := h.cart.Product(id)
	if err != nil {
		builder.Error(http.StatusNotFound, i18n.ErrKeyProductNotFound, err)
		return
	}

	builder.SuccessOK(product)
}

// GetCart handles GET /api/cart.
//
// @Summary      Get cart
// @Description  Returns the cart of the current shopper session with derived totals. A request without a valid session cookie starts a new, empty cart.
// @Tags         Cart
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=dto.CartResponse} "Cart snapshot"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Failure      503 {object} dto.ErrorResponse "Service unavailable - session store circuit open"
// @Router       /api/cart [get]
func (h *Handler) GetCart(c *gin.Context) {
	state, err := h.cart.Cart(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	NewResponseBuilder(c).SuccessOK(dto.NewCartResponse(state))
}

// GetCartHistory handles GET /api/cart/history.
//
// @Summary      Get cart history
// @Description  Returns the add to cart audit entries of the current session, newest first. Entries are written asynchronously and may lag the cart by a moment.
// @Tags         Cart
// @Produce      json
// @Param        limit query int false "Page size (1-100, default 20)"
// @Param        skip  query int false "Entries to skip"
// @Success      200 {object} dto.SuccessResponse{data=dto.CartHistoryResponse} "History page"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid paging"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Failure      503 {object} dto.ErrorResponse "Service unavailable - audit log disabled or circuit open"
// @Router       /api/cart/history [get]
func (h *Handler) GetCartHistory(c *gin.Context) {
	builder := NewResponseBuilder(c)
	if h.logs == nil {
		builder.Error(http.StatusServiceUnavailable, i18n.ErrKeyServiceUnavailable, ErrHistoryUnavailable)
		return
	}

	q, err := BuildQueryRequest[dto.CartHistoryQuery](c)
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
		return
	}
	if q.Limit == 0 {
		q.Limit = dto.DefaultHistoryLimit
	}

	opts := model.LogQueryOptions{
		SessionID:  middleware.GetSessionID(c),
		ActionType: model.ActionAddToCart,
		Limit:      q.Limit,
		Skip:       q.Skip,
	}

	var (
		entries []model.LogEntry
		total   int64
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		entries, err = h.logs.QueryLogs(ctx, opts)
		return err
	})
	g.Go(func() (err error) {
		total, err = h.logs.CountLogs(ctx, opts)
		return err
	})
	if err := g.Wait(); err != nil {
		_ = c.Error(err)
		return
	}

	builder.SuccessOK(dto.NewCartHistoryResponse(entries, total))
}

// AddCartItem handles POST /api/cart/items.
//
// @Summary      Add item to cart
// @Description  Adds one unit of a product to the session cart and returns the new cart. Supports idempotency via Idempotency-Key header.
// @Tags         Cart
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Idempotency key for request deduplication"
// @Param        request body dto.AddToCartRequest true "Product to add"
// @Success      200 {object} dto.SuccessResponse{data=dto.CartResponse} "Updated cart"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      404 {object} dto.ErrorResponse "Not found - unknown product"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Failure      503 {object} dto.ErrorResponse "Service unavailable"
// @Router       /api/cart/items [post]
func (h *Handler) AddCartItem(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequest[dto.AddToCartRequest](c)
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}
	if err := validate(req); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidProductID, err)
		return
	}

	state, ok := addItem(c, h.cart, h.auditLogger, req.ProductID)
	if !ok {
		return
	}
	builder.SuccessOK(dto.NewCartResponse(state))
}

// addItem dispatches the add and records it in the audit log. On failure the
// error response is already written and ok is false.
func addItem(c *gin.Context, cart service.CartService, al *middleware.AsyncLogger, productID int) (model.CartState, bool) {
	fields := map[string]interface{}{"product_id": productID}

	state, err := cart.AddItem(c.Request.Context(), middleware.GetSessionID(c), productID)
	if err != nil {
		middleware.AuditLogError(al, c, model.ActionAddToCart, "Add to cart failed", err, fields)
		if errors.Is(err, service.ErrProductNotFound) {
			NewResponseBuilder(c).Error(http.StatusNotFound, i18n.ErrKeyProductNotFound, err)
		} else {
			_ = c.Error(err)
		}
		return model.CartState{}, false
	}

	fields["total_items"] = state.TotalItems()
	fields["total_price"] = state.TotalPrice()
	middleware.AuditLog(al, c, model.ActionAddToCart, "Item added to cart", fields)
	return state, true
}
