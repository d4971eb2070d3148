package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const readinessTimeout = 2 * time.Second

// Pinger reports whether a backing service is reachable. *sqlx.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	db      Pinger
	started time.Time
}

// NewHealthHandler creates a HealthHandler whose readiness depends on db.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, started: time.Now()}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
	})
}

// Readiness handles GET /readyz. Invoices cannot be saved without the
// database, so an unreachable one makes the instance unready.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	start := time.Now()
	err := h.db.PingContext(ctx)
	check := gin.H{"latency_ms": time.Since(start).Milliseconds()}
	if err != nil {
		check["status"] = "unavailable"
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"error":  "database not reachable",
			"checks": gin.H{"database": check},
		})
		return
	}
	check["status"] = "ok"
	c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": gin.H{"database": check}})
}
