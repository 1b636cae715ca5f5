package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campus/backend/internal/infrastructure/resilience"
	"github.com/campus/backend/internal/interfaces/http/dto"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler handles health and info endpoints.
type SystemHandler struct {
	BaseHandler
	serviceName string
	version     string
	startTime   time.Time
	database    Pinger
	cache       Pinger
	breaker     *resilience.Breaker
	targets     []string
}

// SystemOption configures optional dependency checks.
type SystemOption func(*SystemHandler)

// WithDatabase wires a database ping into the health report.
func WithDatabase(db Pinger) SystemOption {
	return func(h *SystemHandler) { h.database = db }
}

// WithCache wires a cache ping into the health report.
func WithCache(cache Pinger) SystemOption {
	return func(h *SystemHandler) { h.cache = cache }
}

// WithBreaker reports circuit state for the named downstream targets.
func WithBreaker(breaker *resilience.Breaker, targets ...string) SystemOption {
	return func(h *SystemHandler) {
		h.breaker = breaker
		h.targets = targets
	}
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(serviceName, version string, opts ...SystemOption) *SystemHandler {
	h := &SystemHandler{
		serviceName: serviceName,
		version:     version,
		startTime:   time.Now(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HealthResponse reports the service and its dependency checks.
type HealthResponse struct {
	Service  string            `json:"service"`
	Status   string            `json:"status"`
	Version  string            `json:"version"`
	Uptime   string            `json:"uptime"`
	Checks   map[string]string `json:"checks,omitempty"`
	Circuits map[string]string `json:"circuits,omitempty"`
}

// Health handles GET /health. Degraded dependencies flip the status but
// keep the response at 200 as long as the process itself is serving; a
// failed database check returns 503.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	resp := HealthResponse{
		Service: h.serviceName,
		Status:  "healthy",
		Version: h.version,
		Uptime:  time.Since(h.startTime).Round(time.Second).String(),
		Checks:  make(map[string]string),
	}

	if h.database != nil {
		if err := h.database.Ping(ctx); err != nil {
			resp.Checks["database"] = "unreachable"
			resp.Status = "unhealthy"
			status = http.StatusServiceUnavailable
		} else {
			resp.Checks["database"] = "ok"
		}
	}

	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			// The cache degrades to pass-through, so this is not fatal.
			resp.Checks["cache"] = "unreachable"
			if resp.Status == "healthy" {
				resp.Status = "degraded"
			}
		} else {
			resp.Checks["cache"] = "ok"
		}
	}

	if h.breaker != nil && len(h.targets) > 0 {
		resp.Circuits = make(map[string]string, len(h.targets))
		for _, target := range h.targets {
			resp.Circuits[target] = h.breaker.State(target).String()
		}
	}

	c.JSON(status, dto.NewSuccessResponse(resp))
}

// Liveness handles GET /liveness.
func (h *SystemHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// InfoResponse reports build and runtime information.
type InfoResponse struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// Info handles GET /system/info.
func (h *SystemHandler) Info(c *gin.Context) {
	info := InfoResponse{
		Service:   h.serviceName,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(info))
}
