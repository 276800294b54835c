// Package main is the entry point for the asset tracking server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"assettrack/internal/config"
	"assettrack/internal/core/civil"
	"assettrack/internal/domain/reconcile"
	"assettrack/internal/domain/reminder"
	"assettrack/internal/domain/report"
	"assettrack/internal/domain/staff"
	"assettrack/internal/domain/transaction"
	"assettrack/internal/infrastructure/feed"
	v1 "assettrack/internal/infrastructure/http/v1"
	"assettrack/internal/infrastructure/http/v1/handlers"
	"assettrack/internal/infrastructure/http/v1/middleware"
	"assettrack/internal/infrastructure/scheduler"
	"assettrack/internal/infrastructure/storage/postgres"
	"assettrack/internal/infrastructure/storage/postgres/staff_repo"
	"assettrack/internal/infrastructure/storage/postgres/transaction_repo"
	"assettrack/internal/swcache"
	"assettrack/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.App.Level,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting asset tracking server")

	// --- Database ---
	if err := postgres.Migrate(ctx, cfg.DB.URL); err != nil {
		log.Fatalw("failed to apply migrations", "error", err)
	}
	log.Info("migrations applied")

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DB.URL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	txRepo := transaction_repo.New(txManager)
	staffRepo := staff_repo.New(txManager)

	changeArchive, err := postgres.NewChangeArchive(txManager)
	if err != nil {
		log.Fatalw("failed to initialize change archive", "error", err)
	}

	// --- Domain services ---
	tokenConfig := staff.DefaultTokenConfig(cfg.Session.Secret)
	tokenConfig.TTL = cfg.Session.TTL
	tokenService := staff.NewTokenService(tokenConfig)

	staffService := staff.NewService(staffRepo, tokenService)
	txService := transaction.NewService(txRepo, changeArchive)
	reportService := report.NewService(txService)

	feedClient := feed.NewClient(cfg.Feed.URL, cfg.Feed.Token)
	syncService := reconcile.NewService(feedClient, txRepo)

	var reminderService *reminder.Service
	if cfg.Reminder.Enabled {
		sender := reminder.NewSMTPSender(reminder.SMTPConfig{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			User:     cfg.Mail.User,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
		})
		reminderService = reminder.NewService(reportService, staffService, sender)
	}

	// --- Scheduler ---
	sched := scheduler.New(scheduler.Config{
		SyncInterval:    cfg.Sync.Interval,
		SyncMinGap:      cfg.Sync.MinGap,
		ReminderEnabled: cfg.Reminder.Enabled,
		ReminderAt:      cfg.Reminder.At,
	}, syncService, reminderService, civil.Zone)

	if err := sched.Start(ctx); err != nil {
		log.Fatalw("failed to start scheduler", "error", err)
	}
	defer sched.Stop()

	// --- Router ---
	middleware.InitMetrics()

	router, err := v1.NewRouter(v1.RouterConfig{
		Logger:             log,
		Pool:               pool,
		StaffService:       staffService,
		TokenService:       tokenService,
		TransactionService: txService,
		ReportService:      reportService,
		SyncService:        syncService,
		PWA: handlers.PWAConfig{
			Version:    cfg.Cache.Version,
			Policy:     swcache.DefaultPolicy(cfg.Cache.BackendHost),
			Precache:   []string{"/offline", "/manifest.webmanifest"},
			OfflineURL: "/offline",
		},
		SyncToken:     cfg.Sync.Token,
		SecureCookies: !cfg.IsDevelopment(),
		SessionMaxAge: int(cfg.Session.TTL.Seconds()),
		StaticDir:     cfg.App.StaticDir,
	})
	if err != nil {
		log.Fatalw("failed to build router", "error", err)
	}

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
