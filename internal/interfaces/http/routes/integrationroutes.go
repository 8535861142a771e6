// Package routes provides HTTP route configurations.
package routes

import (
	"github.com/gin-gonic/gin"

	"poolhub/internal/interfaces/http/handlers"
	"poolhub/internal/interfaces/http/middleware"
)

// IntegrationRouteConfig contains dependencies for integration routes.
type IntegrationRouteConfig struct {
	IntegrationHandler *handlers.IntegrationHandler
}

// SetupIntegrationRoutes configures the user-facing integration API.
// Routes: /integrations/*
// :id is integration SID (itg_xxx format)
// :deviceId is device SID (dev_xxx format)
func SetupIntegrationRoutes(engine *gin.Engine, cfg *IntegrationRouteConfig) {
	integrations := engine.Group("/integrations")
	integrations.Use(middleware.RequireUser())
	{
		integrations.GET("", cfg.IntegrationHandler.List)

		// gin allows only one wildcard name per segment, so the connect
		// routes share :id with the SID-scoped ones; for connect and
		// callback the segment carries the provider name.
		integrations.POST("/:id/connect", cfg.IntegrationHandler.Connect)
		integrations.POST("/:id/callback", cfg.IntegrationHandler.Callback)

		single := integrations.Group("/:id")
		{
			single.DELETE("", cfg.IntegrationHandler.Disconnect)
			single.POST("/devices/discover", cfg.IntegrationHandler.DiscoverDevices)
			single.GET("/devices", cfg.IntegrationHandler.ListDevices)
			single.POST("/devices/:deviceId/link", cfg.IntegrationHandler.LinkDevice)
			single.GET("/devices/:deviceId/readings", cfg.IntegrationHandler.DeviceReadings)
		}
	}
}
