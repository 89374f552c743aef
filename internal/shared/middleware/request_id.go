package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vcard-backend/internal/shared"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.New().String()
		}

		c.Set(shared.ContextRequestID, rid)
		c.Header("X-Request-ID", rid)
		c.Next()
	}
}
