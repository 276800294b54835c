package middleware

import (
	"github.com/gin-gonic/gin"

	"assettrack/internal/core/session"
	"assettrack/internal/domain/staff"
)

// SessionContext derives the actor session from request cookies and attaches
// it to the request context. The plaintext cookies drive routing; the signed
// staffSession cookie, when present and valid, additionally proves identity.
// Invalid or expired tokens degrade silently: routing still works, identity
// does not.
func SessionContext(tokens *staff.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := session.FromRequest(c.Request)

		if cookie, err := c.Request.Cookie(session.CookieSession); err == nil {
			if verified, err := tokens.Validate(cookie.Value); err == nil {
				s.StaffCode = verified.StaffCode
			}
		}

		ctx := session.With(c.Request.Context(), s)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
