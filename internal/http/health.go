package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/green-haven/internal/circuitbreaker"
	"golang.org/x/sync/errgroup"
)

const healthCheckTimeout = 2 * time.Second

// HealthChecker defines the interface for health check operations.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthCheckerFunc adapts a function to HealthChecker.
type HealthCheckerFunc func(ctx context.Context) error

// HealthCheck calls f.
func (f HealthCheckerFunc) HealthCheck(ctx context.Context) error {
	return f(ctx)
}

// StatsFunc reports point-in-time counters of a component.
type StatsFunc func() map[string]interface{}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	mu              sync.RWMutex
	checkers        map[string]HealthChecker
	circuitBreakers map[string]*circuitbreaker.CircuitBreaker
	stats           map[string]StatsFunc
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		checkers:        make(map[string]HealthChecker),
		circuitBreakers: make(map[string]*circuitbreaker.CircuitBreaker),
		stats:           make(map[string]StatsFunc),
	}
}

// RegisterChecker registers a dependency probed by the readiness endpoint.
func (h *HealthHandler) RegisterChecker(name string, checker HealthChecker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = checker
}

// RegisterCircuitBreaker registers a circuit breaker for health monitoring.
func (h *HealthHandler) RegisterCircuitBreaker(name string, cb *circuitbreaker.CircuitBreaker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.circuitBreakers[name] = cb
}

// RegisterStats adds a component's counters to the readiness response.
// Stats are informational and never affect readiness.
func (h *HealthHandler) RegisterStats(name string, fn StatsFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stats[name] = fn
}

// Register registers health endpoints on the router.
func (h *HealthHandler) Register(router *gin.Engine) {
	router.GET("/healthz", h.Liveness)
	router.GET("/readyz", h.Readiness)
}

// Liveness handles the liveness probe endpoint.
// @Summary     Liveness probe
// @Description Returns OK if the service is running.
// @Tags        Health
// @Produce     json
// @Success     200 {object} map[string]string "Service is alive"
// @Router      /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles the readiness probe endpoint.
// @Summary     Readiness probe
// @Description Returns OK if the session store and audit log are reachable and no circuit breaker is open. Component counters are reported under stats.
// @Tags        Health
// @Produce     json
// @Success     200 {object} map[string]interface{} "Service is ready"
// @Failure     503 {object} map[string]interface{} "Service is not ready"
// @Router      /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	h.mu.RLock()
	checkers := make(map[string]HealthChecker, len(h.checkers))
	for name, checker := range h.checkers {
		checkers[name] = checker
	}
	breakers := make(map[string]*circuitbreaker.CircuitBreaker, len(h.circuitBreakers))
	for name, cb := range h.circuitBreakers {
		breakers[name] = cb
	}
	stats := make(map[string]interface{}, len(h.stats))
	for name, fn := range h.stats {
		stats[name] = fn()
	}
	h.mu.RUnlock()

	ready := true
	checks := make(map[string]interface{}, len(checkers)+len(breakers))

	// probes share one deadline
	var (
		g  errgroup.Group
		mu sync.Mutex
	)
	for name, checker := range checkers {
		g.Go(func() error {
			result := "ok"
			if err := checker.HealthCheck(ctx); err != nil {
				result = err.Error()
			}
			mu.Lock()
			checks[name] = result
			if result != "ok" {
				ready = false
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for name, cb := range breakers {
		cbStats := cb.GetStats()
		checks[name+"_circuit"] = cbStats.State
		ready = ready && cbStats.IsHealthy
	}

	if len(checks) == 0 {
		checks["service"] = "ok"
	}

	status, label := http.StatusOK, "ok"
	if !ready {
		status, label = http.StatusServiceUnavailable, "degraded"
	}
	body := gin.H{"status": label, "checks": checks}
	if len(stats) > 0 {
		body["stats"] = stats
	}
	c.JSON(status, body)
}
