package routes

import (
	"github.com/gin-gonic/gin"

	"poolhub/internal/interfaces/http/handlers"
	"poolhub/internal/interfaces/http/middleware"
)

// AdminRouteConfig contains dependencies for the operator routes.
type AdminRouteConfig struct {
	IngestionAdminHandler *handlers.IngestionAdminHandler
	AdminToken            string
}

// SetupAdminRoutes configures the operator surface for the retry queue.
// Routes: /admin/ingestion-failures/*
// Guarded by X-Admin-Token; an empty configured token disables the surface.
func SetupAdminRoutes(engine *gin.Engine, cfg *AdminRouteConfig) {
	admin := engine.Group("/admin")
	admin.Use(middleware.RequireAdmin(cfg.AdminToken))
	{
		admin.GET("/ingestion-failures", cfg.IngestionAdminHandler.ListFailures)
		admin.POST("/ingestion-failures/retry", cfg.IngestionAdminHandler.RetryFailures)
	}
}
