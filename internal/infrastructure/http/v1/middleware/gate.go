package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"assettrack/internal/core/session"
	"assettrack/internal/gate"
)

// Gate evaluates the route access policy against the cookie-derived session
// and issues a temporary redirect when the policy says so. It never rejects
// with an error status; unrecognized sessions pass through.
func Gate() gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := gate.Evaluate(c.Request.URL.Path, session.Get(c.Request.Context()))
		if decision.Outcome == gate.Redirect {
			c.Redirect(http.StatusTemporaryRedirect, decision.Target)
			c.Abort()
			return
		}
		c.Next()
	}
}
