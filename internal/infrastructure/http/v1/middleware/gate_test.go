package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"assettrack/internal/core/session"
	"assettrack/internal/domain/staff"
)

func newGateRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	tokens := staff.NewTokenService(staff.DefaultTokenConfig("test-secret"))

	router := gin.New()
	router.Use(SessionContext(tokens))
	router.Use(Gate())
	router.NoRoute(func(c *gin.Context) {
		c.String(http.StatusOK, "page")
	})
	return router
}

func get(router *gin.Engine, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGateRedirectsKioskSessionToEntryPage(t *testing.T) {
	router := newGateRouter()

	w := get(router, "/daily-report",
		&http.Cookie{Name: session.CookieLinkUser, Value: "NV012"},
		&http.Cookie{Name: session.CookieRole, Value: "admin"},
	)

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/asset-entry", w.Header().Get("Location"))
}

func TestGateAllowsAdminEverywhere(t *testing.T) {
	router := newGateRouter()

	w := get(router, "/daily-report",
		&http.Cookie{Name: session.CookieRole, Value: "admin"},
	)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGateRedirectsManagementFromReport(t *testing.T) {
	router := newGateRouter()

	w := get(router, "/daily-report",
		&http.Cookie{Name: session.CookieRole, Value: "user"},
		&http.Cookie{Name: session.CookieDept, Value: session.DeptManagement},
	)

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/asset-entry", w.Header().Get("Location"))
}

func TestGateFailsOpenWithoutCookies(t *testing.T) {
	router := newGateRouter()

	w := get(router, "/daily-report")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGateIgnoresInvalidSessionToken(t *testing.T) {
	router := newGateRouter()

	w := get(router, "/daily-report",
		&http.Cookie{Name: session.CookieRole, Value: "admin"},
		&http.Cookie{Name: session.CookieSession, Value: "not-a-token"},
	)

	assert.Equal(t, http.StatusOK, w.Code)
}
