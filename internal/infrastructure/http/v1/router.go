// Package v1 wires the HTTP surface: middleware chain, API routes, the
// installable-app endpoints and the page shell.
package v1

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"assettrack/internal/domain/reconcile"
	"assettrack/internal/domain/report"
	"assettrack/internal/domain/staff"
	"assettrack/internal/domain/transaction"
	"assettrack/internal/infrastructure/http/v1/handlers"
	"assettrack/internal/infrastructure/http/v1/middleware"
	"assettrack/internal/infrastructure/storage/postgres"
	"assettrack/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Logger *logger.Logger
	Pool   *postgres.Pool

	StaffService       *staff.Service
	TokenService       *staff.TokenService
	TransactionService *transaction.Service
	ReportService      *report.Service
	SyncService        *reconcile.Service

	PWA handlers.PWAConfig

	// SyncToken is the bearer credential for the sync trigger endpoint.
	SyncToken string

	// SecureCookies marks session cookies Secure; off in development.
	SecureCookies bool

	// SessionMaxAge is the staffSession cookie lifetime in seconds.
	SessionMaxAge int

	// StaticDir, when set, serves the page shell and its assets from disk.
	StaticDir string
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.Metrics())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.SessionContext(cfg.TokenService))
	router.Use(middleware.Gate())

	pwaHandler, err := handlers.NewPWAHandler(cfg.PWA)
	if err != nil {
		return nil, err
	}

	authHandler := handlers.NewAuthHandler(cfg.StaffService, cfg.SecureCookies, cfg.SessionMaxAge)
	txHandler := handlers.NewTransactionHandler(cfg.TransactionService)
	reportHandler := handlers.NewReportHandler(cfg.ReportService)
	syncHandler := handlers.NewSyncHandler(cfg.SyncService)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)

	// Health endpoints (no auth required)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Installable-app surface
	router.GET("/sw.js", pwaHandler.ServiceWorker)
	router.GET("/manifest.webmanifest", pwaHandler.Manifest)
	router.GET("/offline", pwaHandler.Offline)

	// Deep-link kiosk entry
	router.GET("/link/:slug", authHandler.LinkLogin)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/sign-in", authHandler.SignIn)
			auth.POST("/sign-out", authHandler.SignOut)
			auth.GET("/me", authHandler.Me)
		}

		// Sync trigger uses its own static credential, not a staff session.
		api.POST("/sync", middleware.RequireBearer(cfg.SyncToken), syncHandler.Trigger)

		protected := api.Group("", middleware.RequireStaff())
		{
			protected.POST("/transactions", txHandler.Create)
			protected.GET("/transactions", txHandler.List)
			protected.GET("/transactions/:id", txHandler.Get)
			protected.PATCH("/transactions/:id/note", txHandler.UpdateNote)
			protected.DELETE("/transactions/:id", txHandler.Delete)
			protected.DELETE("/transactions/:id/hard", middleware.RequireAdmin(), txHandler.HardDelete)

			protected.GET("/reports/daily", reportHandler.Daily)
		}
	}

	// Page shell: every non-API route falls through to the SPA entry point,
	// after the gate has had its say.
	if cfg.StaticDir != "" {
		router.Static("/static", cfg.StaticDir)
		index := filepath.Join(cfg.StaticDir, "index.html")
		router.NoRoute(func(c *gin.Context) {
			c.File(index)
		})
	} else {
		router.NoRoute(func(c *gin.Context) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		})
	}

	return router, nil
}
