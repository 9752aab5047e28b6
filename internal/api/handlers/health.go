package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/lineup-optimizer/internal/storage"
)

type HealthHandler struct {
	store *storage.Store
}

func NewHealthHandler(store *storage.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

// GetHealth is the liveness probe; it returns 200 whenever the server runs.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"service":   "lineup-optimizer",
		"timestamp": time.Now().UTC(),
	})
}

// GetReady reports readiness including the optional database dependency.
func (h *HealthHandler) GetReady(c *gin.Context) {
	if h.store != nil {
		if err := h.store.HealthCheck(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not_ready",
				"error":  err.Error(),
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
