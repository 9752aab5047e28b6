package api

import (
	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/lineup-optimizer/internal/api/handlers"
	"github.com/stitts-dev/lineup-optimizer/internal/config"
	"github.com/stitts-dev/lineup-optimizer/internal/storage"
	"github.com/stitts-dev/lineup-optimizer/pkg/cache"
)

// SetupRoutes configures all API routes on the given router group.
func SetupRoutes(group *gin.RouterGroup, cacheService *cache.LineupCacheService, store *storage.Store, cfg *config.Config) {
	optimizeHandler := handlers.NewOptimizeHandler(cacheService, store, cfg)

	group.POST("/optimize", optimizeHandler.OptimizeLineup)
	group.GET("/lineups/recent", optimizeHandler.GetRecentLineups)
}
