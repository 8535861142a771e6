package routes

import (
	"github.com/gin-gonic/gin"

	"poolhub/internal/infrastructure/ratelimit"
	"poolhub/internal/interfaces/http/handlers"
	"poolhub/internal/interfaces/http/middleware"
	"poolhub/internal/shared/logger"
)

// WebhookRouteConfig contains dependencies for the webhook intake routes.
type WebhookRouteConfig struct {
	WebhookHandler *handlers.WebhookHandler
	RateLimiter    ratelimit.RateLimiter
	RateLimit      ratelimit.RateLimitConfig
	Logger         logger.Interface
}

// SetupWebhookRoutes configures the unauthenticated provider intake.
// Routes: /webhooks/:provider
// Deliveries authenticate with X-Webhook-Signature, not a user identity.
func SetupWebhookRoutes(engine *gin.Engine, cfg *WebhookRouteConfig) {
	webhooks := engine.Group("/webhooks")
	webhooks.Use(middleware.WebhookRateLimit(cfg.RateLimiter, cfg.RateLimit, cfg.Logger))
	{
		webhooks.POST("/:provider", cfg.WebhookHandler.Receive)
	}
}
