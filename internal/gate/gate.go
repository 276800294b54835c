// Package gate implements the route-level access policy evaluated on every
// inbound request. The decision depends only on the request path and the
// cookie-derived session; it is stateless and never errors.
package gate

import (
	"strings"

	"assettrack/internal/core/session"
)

// Paths treated specially by the policy.
const (
	PathAssetEntry  = "/asset-entry"
	PathDailyReport = "/daily-report"
	PathSignIn      = "/sign-in"
	PathSignOut     = "/sign-out"
)

// Outcome of a gate evaluation.
type Outcome int

const (
	Allow Outcome = iota
	Redirect
)

// Decision is the result of evaluating a request path against a session.
type Decision struct {
	Outcome Outcome
	// Target is the redirect destination, set only when Outcome == Redirect.
	Target string
}

var allow = Decision{Outcome: Allow}

func redirectTo(target string) Decision {
	return Decision{Outcome: Redirect, Target: target}
}

// staticExtensions always pass the gate regardless of session.
var staticExtensions = []string{
	".png", ".jpg", ".jpeg", ".svg", ".gif", ".ico", ".webp",
	".css", ".js", ".map", ".woff", ".woff2", ".ttf",
	".mp4", ".webm", ".pdf",
}

// Evaluate decides allow/redirect for path under the given session.
//
// Priority order: deep-link kiosk session first, then admin, then the
// department rules, then fail-open for unrecognized sessions. Page-level
// authentication is deliberately not this layer's job.
func Evaluate(path string, s *session.Session) Decision {
	if s == nil {
		s = &session.Session{}
	}

	if isAlwaysAllowed(path) {
		return allow
	}

	// Priority 1: link session restricts everything to the entry screen,
	// overriding any role the cookies may also carry.
	if s.LinkUserPresent() {
		if hasPrefixPath(path, PathAssetEntry) {
			return allow
		}
		return redirectTo(PathAssetEntry)
	}

	// Priority 2: admins go anywhere.
	if s.Role == session.RoleAdmin {
		return allow
	}

	if s.Role == session.RoleUser {
		switch s.Department {
		case session.DeptManagement:
			// Priority 3: QLN staff only enter transactions.
			if hasPrefixPath(path, PathAssetEntry) {
				return allow
			}
			return redirectTo(PathAssetEntry)
		case session.DeptTreasury:
			// Priority 4: NQ staff also read the daily report.
			if hasPrefixPath(path, PathAssetEntry) || hasPrefixPath(path, PathDailyReport) {
				return allow
			}
			return redirectTo(PathAssetEntry)
		}
	}

	// No recognized role: fail open. Unauthenticated visitors are gated at
	// the page level, not here.
	return allow
}

// isAlwaysAllowed covers sign-in/out and the static-asset allowlist.
func isAlwaysAllowed(path string) bool {
	if path == "/" || path == PathSignIn || path == PathSignOut || path == "/favicon.ico" {
		return true
	}
	if strings.HasPrefix(path, "/_next") {
		return true
	}
	for _, ext := range staticExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// hasPrefixPath reports whether path is prefix or one of its sub-paths.
func hasPrefixPath(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
