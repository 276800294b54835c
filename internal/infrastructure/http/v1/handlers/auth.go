package handlers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"assettrack/internal/core/session"
	"assettrack/internal/domain/staff"
	"assettrack/internal/gate"
	"assettrack/internal/infrastructure/http/v1/dto"
)

// AuthHandler serves the sign-in, sign-out and link-login flows.
type AuthHandler struct {
	*BaseHandler
	staff        *staff.Service
	secureCookie bool
	tokenMaxAge  int
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(staffSvc *staff.Service, secureCookie bool, tokenMaxAge int) *AuthHandler {
	return &AuthHandler{
		BaseHandler:  NewBaseHandler(),
		staff:        staffSvc,
		secureCookie: secureCookie,
		tokenMaxAge:  tokenMaxAge,
	}
}

// SignIn handles POST /api/auth/sign-in.
// On success it sets the role and department cookies read by the routing
// gate plus the signed staffSession token.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req dto.SignInRequest
	if !h.BindJSON(c, &req) {
		return
	}

	signed, err := h.staff.SignIn(c.Request.Context(), req.Code, req.Password)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.setSessionCookies(c, signed)
	h.OK(c, dto.FromSignedIn(signed))
}

// SignOut handles POST /api/auth/sign-out.
// Clears the role, department and token cookies. The linkUser cookie is
// left alone: the kiosk marker outlives individual staff sessions.
func (h *AuthHandler) SignOut(c *gin.Context) {
	h.clearCookie(c, session.CookieRole)
	h.clearCookie(c, session.CookieDept)
	h.clearCookie(c, session.CookieSession)
	h.Success(c, "signed out")
}

// LinkLogin handles GET /link/:slug, the deep-link kiosk entry.
// Sets the linkUser marker for 30 days and redirects to the entry page.
func (h *AuthHandler) LinkLogin(c *gin.Context) {
	signed, err := h.staff.LinkLogin(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieLinkUser, url.QueryEscape(signed.Staff.Code),
		session.LinkUserMaxAge, "/", "", h.secureCookie, false)
	h.setSessionCookies(c, signed)

	c.Redirect(http.StatusTemporaryRedirect, gate.PathAssetEntry)
}

// Me handles GET /api/auth/me, returning the current session shape.
func (h *AuthHandler) Me(c *gin.Context) {
	s := h.Session(c)
	h.OK(c, gin.H{
		"linkUser":  s.LinkUser,
		"role":      string(s.Role),
		"dept":      s.Department,
		"staffCode": s.StaffCode,
	})
}

func (h *AuthHandler) setSessionCookies(c *gin.Context, signed *staff.SignedInStaff) {
	c.SetSameSite(http.SameSiteLaxMode)

	// Role and department are readable by the client-side routing shell.
	c.SetCookie(session.CookieRole, signed.Staff.Role,
		session.RoleMaxAge, "/", "", h.secureCookie, false)
	c.SetCookie(session.CookieDept, signed.Staff.Dept,
		session.RoleMaxAge, "/", "", h.secureCookie, false)

	// The signed token is for the server only.
	c.SetCookie(session.CookieSession, signed.Token,
		h.tokenMaxAge, "/", "", h.secureCookie, true)
}

func (h *AuthHandler) clearCookie(c *gin.Context, name string) {
	c.SetCookie(name, "", -1, "/", "", h.secureCookie, false)
}
