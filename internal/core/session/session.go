// Package session models the per-request actor: the three logical fields
// carried by cookies (link-login marker, staff role, staff department) plus
// context plumbing for handlers and the routing gate.
package session

import (
	"context"
	"net/http"
	"net/url"
)

// Role is the access level encoded in the staffRole cookie.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleUnset Role = ""
)

// Department codes recognized by the routing gate.
const (
	DeptManagement = "QLN"
	DeptTreasury   = "NQ"
)

// Cookie names set by the sign-in and link-login flows.
const (
	CookieLinkUser = "linkUser"
	CookieRole     = "staffRole"
	CookieDept     = "staffDept"
	CookieSession  = "staffSession"
)

// Cookie lifetimes in seconds.
const (
	LinkUserMaxAge = 30 * 24 * 60 * 60       // 30 days
	RoleMaxAge     = 10 * 365 * 24 * 60 * 60 // ~10 years
)

// Session is the actor context derived fresh from cookies on every request.
// It is never persisted beyond the cookies themselves.
type Session struct {
	// LinkUser is the urldecoded deep-link username, empty when not in kiosk mode.
	LinkUser string

	// Role from the staffRole cookie; empty means no recognized role.
	Role Role

	// Department from the staffDept cookie.
	Department string

	// StaffCode is set only when a verified staffSession token was presented.
	StaffCode string
}

// LinkUserPresent reports whether a deep-link kiosk session is active.
// It takes priority over Role/Department for routing decisions.
func (s *Session) LinkUserPresent() bool {
	return s.LinkUser != ""
}

// IsAdmin reports whether the actor carries the admin role.
func (s *Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// FromRequest derives a Session from request cookies.
// Malformed or missing cookies degrade to empty values; it never fails.
func FromRequest(r *http.Request) *Session {
	s := &Session{}

	if c, err := r.Cookie(CookieLinkUser); err == nil {
		if decoded, derr := url.QueryUnescape(c.Value); derr == nil {
			s.LinkUser = decoded
		} else {
			s.LinkUser = c.Value
		}
	}
	if c, err := r.Cookie(CookieRole); err == nil {
		switch Role(c.Value) {
		case RoleAdmin, RoleUser:
			s.Role = Role(c.Value)
		}
	}
	if c, err := r.Cookie(CookieDept); err == nil {
		s.Department = c.Value
	}

	return s
}

// --- Context plumbing ---

type sessionKey struct{}
type requestIDKey struct{}

// With adds a Session to context.
func With(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// Get returns the Session from context, or nil if none.
func Get(ctx context.Context) *Session {
	if v, ok := ctx.Value(sessionKey{}).(*Session); ok {
		return v
	}
	return nil
}

// WithRequestID adds a request ID to context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// GetRequestID returns the request ID from context or empty string.
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}
