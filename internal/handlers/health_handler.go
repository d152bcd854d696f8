package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	dbPing func(c *gin.Context) error
}

// NewHealthHandler creates a health handler. dbPing verifies the storage
// connection; pass nil to skip the check (tests, offline tooling).
func NewHealthHandler(dbPing func(c *gin.Context) error) *HealthHandler {
	return &HealthHandler{dbPing: dbPing}
}

// Healthcheck handles GET /api/health
func (h *HealthHandler) Healthcheck(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	if h.dbPing != nil {
		if err := h.dbPing(c); err != nil {
			attachError(c, err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
				"reason": "database not reachable",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
