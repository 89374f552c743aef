package middleware

import (
	"github.com/gin-gonic/gin"

	"vcard-backend/internal/shared"
	"vcard-backend/internal/shared/utils"
)

// ClientIPMiddleware extracts the client IP once per request so the rate
// limiter and the request logger agree on it.
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(shared.ContextClientIP, utils.ExtractClientIP(c))
		c.Next()
	}
}

// ClientIP đọc IP đã được ClientIPMiddleware set, fallback extract trực tiếp
func ClientIP(c *gin.Context) string {
	if ip := c.GetString(shared.ContextClientIP); ip != "" {
		return ip
	}
	return utils.ExtractClientIP(c)
}
