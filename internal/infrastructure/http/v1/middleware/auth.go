package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	"assettrack/internal/core/apperror"
	"assettrack/internal/core/session"
)

// RequireStaff rejects requests without a verified staffSession token.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := session.Get(c.Request.Context())
		if s == nil || s.StaffCode == "" {
			_ = c.Error(apperror.NewUnauthorized("sign-in required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects requests unless the actor carries the admin role.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := session.Get(c.Request.Context())
		if s == nil || s.StaffCode == "" {
			_ = c.Error(apperror.NewUnauthorized("sign-in required"))
			c.Abort()
			return
		}
		if !s.IsAdmin() {
			_ = c.Error(apperror.NewForbidden("admin role required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireBearer validates a static bearer credential, used by the sync
// trigger endpoint.
func RequireBearer(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			_ = c.Error(apperror.NewUnauthorized("missing bearer token"))
			c.Abort()
			return
		}
		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(token)) != 1 {
			_ = c.Error(apperror.NewUnauthorized("invalid bearer token"))
			c.Abort()
			return
		}
		c.Next()
	}
}
