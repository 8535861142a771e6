package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"poolhub/internal/infrastructure/ratelimit"
	"poolhub/internal/shared/logger"
	"poolhub/internal/shared/utils"
)

// WebhookRateLimit throttles webhook intake per provider and source address.
// Over-limit deliveries get a 429 so well-behaved providers back off and
// redeliver later.
func WebhookRateLimit(limiter ratelimit.RateLimiter, cfg ratelimit.RateLimitConfig, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("webhook:%s:%s", c.Param("provider"), c.ClientIP())

		allowed, err := limiter.Allow(key, cfg)
		if err != nil {
			// limiter outage must not block intake
			log.Warnw("rate limiter check failed", "error", err, "key", key)
			c.Next()
			return
		}

		if !allowed {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded")
			c.Abort()
			return
		}
		c.Next()
	}
}
