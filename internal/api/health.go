package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/coffeepulse/internal/logger"
)

// Check probes one dependency for readiness.
type Check func(ctx context.Context) error

// HealthHandler provides liveness and readiness endpoints.
//
// Responsibilities:
//   - /healthz and /health: liveness, always 200 while the process serves HTTP.
//   - /readyz: readiness, 503 when any registered dependency check fails.
type HealthHandler struct {
	checks  map[string]Check
	started time.Time
	timeout time.Duration
}

// NewHealthHandler builds a HealthHandler. checks maps a dependency name
// (for example "postgres" or "redis") to its probe; it may be empty.
func NewHealthHandler(checks map[string]Check) *HealthHandler {
	return &HealthHandler{checks: checks, started: time.Now(), timeout: 2 * time.Second}
}

// Register mounts the health and readiness endpoints.
func (h *HealthHandler) Register(r gin.IRoutes) {
	r.GET("/healthz", h.Live)
	r.GET("/health", h.Live)
	r.GET("/readyz", h.Ready)
}

// Live godoc
// @Summary      Liveness probe
// @Description  Always returns OK while the service is running
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /healthz [get]
// @Router       /health [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"uptime_seconds": int64(time.Since(h.started) / time.Second),
		"timestamp":      time.Now().UTC(),
	})
}

// Ready godoc
// @Summary      Readiness probe
// @Description  Returns ready when every configured dependency (journal DB, session store) answers
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      503  {object}  map[string]any
// @Router       /readyz [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make(map[string]string, len(names))
	ready := true
	for _, name := range names {
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		err := h.checks[name](ctx)
		cancel()
		if err != nil {
			ready = false
			results[name] = err.Error()
			logger.L().Warn().Err(err).Str("dependency", name).Msg("readiness check failed")
			continue
		}
		results[name] = "ok"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "checks": results})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "checks": results})
}
