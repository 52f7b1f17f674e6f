package api

import (
	"context"
	"net/http"
	"time"

	"github.com/ajharbinger/poolvest-insights/internal/database"
	"github.com/gin-gonic/gin"
)

// HealthChecker is the part of *database.DB the health endpoint needs
type HealthChecker interface {
	HealthCheckContext(ctx context.Context) error
	GetStats() database.PoolStats
}

// HealthHandler reports database reachability and pool usage
type HealthHandler struct {
	db HealthChecker
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db HealthChecker) *HealthHandler {
	return &HealthHandler{db: db}
}

// GetHealth returns 200 when the database answers and 503 otherwise
func (h *HealthHandler) GetHealth(c *gin.Context) {
	err := h.db.HealthCheckContext(c.Request.Context())

	response := gin.H{
		"healthy":   err == nil,
		"timestamp": time.Now().UTC(),
		"database":  h.db.GetStats(),
	}
	if err != nil {
		response["error"] = "database unavailable"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	c.JSON(http.StatusOK, response)
}
