package middleware

import (
	"crypto/subtle"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"poolhub/internal/shared/utils"
)

// RequireUser extracts the authenticated user from the X-User-ID header set
// by the upstream gateway. Authentication itself happens before this service.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-User-ID")
		if raw == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}

		userID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || userID == 0 {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid user identity")
			c.Abort()
			return
		}

		c.Set("user_id", uint(userID))
		c.Next()
	}
}

// RequireAdmin guards operator endpoints with a shared token. An empty
// configured token disables the endpoints entirely.
func RequireAdmin(adminToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminToken == "" {
			utils.ErrorResponse(c, http.StatusNotFound, "not found")
			c.Abort()
			return
		}

		provided := c.GetHeader("X-Admin-Token")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(adminToken)) != 1 {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid admin token")
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserID reads the user set by RequireUser.
func UserID(c *gin.Context) (uint, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	userID, ok := raw.(uint)
	return userID, ok
}
