// Package swcache implements the offline caching layer backing the PWA
// shell: per-resource-class strategies (cache-first, stale-while-revalidate,
// network-first, navigation fallback) over two versioned stores. It decides
// strategy from request shape alone, independent of application logic.
package swcache

import (
	"net/http"
	"strings"
)

// Strategy selects how a request is served.
type Strategy int

const (
	// Bypass leaves the request to the network untouched.
	Bypass Strategy = iota
	// Navigation serves full-page loads with an offline fallback.
	Navigation
	// CacheFirst serves from cache, fetching only on a miss.
	CacheFirst
	// StaleWhileRevalidate serves cached immediately while refreshing.
	StaleWhileRevalidate
	// NetworkFirst fetches, falling back to cache on failure.
	NetworkFirst
)

// String implements fmt.Stringer for logs and tests.
func (s Strategy) String() string {
	switch s {
	case Bypass:
		return "bypass"
	case Navigation:
		return "navigation"
	case CacheFirst:
		return "cache-first"
	case StaleWhileRevalidate:
		return "stale-while-revalidate"
	case NetworkFirst:
		return "network-first"
	}
	return "unknown"
}

// Policy holds the request-shape rules of the dispatch table.
type Policy struct {
	// BackendHost is the database/backend origin that is never intercepted.
	BackendHost string
	// APIPrefix marks backend endpoints that are never intercepted.
	APIPrefix string
}

// DefaultPolicy returns the standard dispatch rules.
func DefaultPolicy(backendHost string) Policy {
	return Policy{BackendHost: backendHost, APIPrefix: "/api/"}
}

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".svg", ".gif", ".ico", ".webp"}

var assetExtensions = []string{".css", ".js", ".mjs", ".map"}

// ImageExtensions returns the suffixes served cache-first.
func ImageExtensions() []string {
	return append([]string(nil), imageExtensions...)
}

// AssetExtensions returns the suffixes served stale-while-revalidate.
func AssetExtensions() []string {
	return append([]string(nil), assetExtensions...)
}

// Classify picks the strategy for a request.
func (p Policy) Classify(r *http.Request) Strategy {
	if r.Method != http.MethodGet {
		return Bypass
	}
	if p.BackendHost != "" && r.URL.Host == p.BackendHost {
		return Bypass
	}
	path := r.URL.Path
	if p.APIPrefix != "" && strings.HasPrefix(path, p.APIPrefix) {
		return Bypass
	}
	if isNavigation(r) {
		return Navigation
	}
	if hasAnySuffix(path, imageExtensions) {
		return CacheFirst
	}
	if hasAnySuffix(path, assetExtensions) {
		return StaleWhileRevalidate
	}
	return NetworkFirst
}

// isNavigation detects a full-page load.
func isNavigation(r *http.Request) bool {
	if r.Header.Get("Sec-Fetch-Mode") == "navigate" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func hasAnySuffix(path string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(path, s) {
			return true
		}
	}
	return false
}
