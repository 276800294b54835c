package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"assettrack/internal/core/session"
)

const HeaderRequestID = "X-Request-ID"

// Trace middleware attaches a request ID to context and response headers.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := session.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Set("request_id", requestID)
		c.Header(HeaderRequestID, requestID)

		c.Next()
	}
}
