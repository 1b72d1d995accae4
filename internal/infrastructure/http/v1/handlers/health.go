// Package handlers provides HTTP request handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"statgate/internal/domain/catalog"
	"statgate/internal/domain/schema"
)

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	catalog *catalog.Catalog
	schemas *schema.Service
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(cat *catalog.Catalog, schemas *schema.Service) *HealthHandler {
	return &HealthHandler{catalog: cat, schemas: schemas}
}

// Live handles liveness probe (is the process alive?).
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready handles readiness probe (is the service ready to accept traffic?).
// GET /health/ready
//
// The first call warms the catalog snapshot, so readiness doubles as the
// warm-up trigger after startup or a cache reset.
func (h *HealthHandler) Ready(c *gin.Context) {
	if _, err := h.catalog.ListCategories(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"checks": map[string]string{
				"catalog": "unhealthy: " + err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"checks": map[string]string{
			"catalog": "healthy",
		},
	})
}

// Info returns application information.
// GET /health/info
func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"app":     "statgate",
		"version": "0.1.0",
		"cache": map[string]any{
			"structures": len(h.schemas.CachedDataflows()),
		},
	})
}
