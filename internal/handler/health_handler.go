package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const readinessTimeout = 2 * time.Second

// Pinger is satisfied by *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Features reports which optional collaborators the server was started with.
type Features struct {
	Recognizer bool `json:"recognizer"`
	Archive    bool `json:"archive"`
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	db       Pinger
	features Features
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db Pinger, features Features) *HealthHandler {
	return &HealthHandler{db: db, features: features}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz. Only the database gates readiness; the recognizer and the
// archive are optional and reported as features.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unavailable",
			"database": "unreachable",
			"features": h.features,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "ok", "features": h.features})
}
