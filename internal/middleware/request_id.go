package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yukikurage/project-tracker-api/internal/constants"
)

// RequestID ensures each request has an ID in context and response headers.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(constants.HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(constants.HeaderRequestID, id)
		c.Set(constants.ContextKeyRequestID, id)
		c.Next()
	}
}

// GetRequestID returns the request id from context.
func GetRequestID(c *gin.Context) string {
	return c.GetString(constants.ContextKeyRequestID)
}
