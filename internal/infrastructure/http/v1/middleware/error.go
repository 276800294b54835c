package middleware

import (
	"github.com/gin-gonic/gin"

	"assettrack/internal/core/apperror"
	"assettrack/pkg/logger"
)

// ErrorHandler middleware transforms errors into consistent JSON responses.
// Hides internal errors from clients while logging full details.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		// If response already written by handler, do not override it.
		if c.Writer.Written() {
			return
		}

		if appErr, ok := apperror.AsAppError(err); ok {
			if appErr.Err != nil {
				logger.Error(c.Request.Context(), "request error",
					"code", appErr.Code,
					"cause", appErr.Err,
				)
			}

			c.JSON(appErr.HTTPStatus, gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
				"details": appErr.Details,
				"error":   appErr.Message,
			})
			return
		}

		logger.Error(c.Request.Context(), "unhandled error",
			"error", err,
		)

		c.JSON(500, gin.H{
			"code":    apperror.CodeInternal,
			"message": "Internal server error",
			"error":   "Internal server error",
			"details": map[string]any{
				"request_id": c.GetString("request_id"),
			},
		})
	}
}
