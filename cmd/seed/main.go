// Package main provides a CLI tool for seeding the database with an initial
// admin account and optional demo staff.
package main

import (
	"context"
	"fmt"
	"os"

	"assettrack/internal/core/apperror"
	"assettrack/internal/core/session"
	"assettrack/internal/domain/staff"
	"assettrack/internal/infrastructure/storage/postgres"
	"assettrack/internal/infrastructure/storage/postgres/staff_repo"
	"assettrack/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	if err := postgres.Migrate(ctx, dbURL); err != nil {
		log.Fatalw("failed to apply migrations", "error", err)
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)
	staffService := staff.NewService(staff_repo.New(txManager), nil)

	if err := seedAdmin(ctx, staffService, log); err != nil {
		log.Fatalw("failed to seed admin", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoStaff(ctx, txManager, staffService, log); err != nil {
			log.Fatalw("failed to seed demo staff", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedAdmin(ctx context.Context, svc *staff.Service, log *logger.Logger) error {
	code := os.Getenv("ADMIN_CODE")
	if code == "" {
		code = "ADMIN"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "Admin123!"
	}

	admin := &staff.Staff{
		Code:     code,
		Name:     "Administrator",
		Role:     string(session.RoleAdmin),
		IsActive: true,
	}
	if err := svc.Create(ctx, admin, password); err != nil {
		if appErr, ok := apperror.AsAppError(err); ok && appErr.Code == apperror.CodeConflict {
			log.Infow("admin already exists, skipping", "code", code)
			return nil
		}
		return err
	}

	log.Infow("admin created", "code", code, "link_slug", admin.LinkSlug)
	return nil
}

// seedDemoStaff creates the demo accounts in one transaction: either the full
// set exists afterwards or none of it does. A conflict means a previous run
// already seeded them.
func seedDemoStaff(ctx context.Context, txManager *postgres.TxManager, svc *staff.Service, log *logger.Logger) error {
	demo := []*staff.Staff{
		{Code: "NV001", Name: "Demo Treasury", Role: string(session.RoleUser), Dept: session.DeptTreasury, IsActive: true},
		{Code: "NV002", Name: "Demo Management", Role: string(session.RoleUser), Dept: session.DeptManagement, IsActive: true},
	}

	err := txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, st := range demo {
			if err := svc.Create(ctx, st, "Demo123!"); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if appErr, ok := apperror.AsAppError(err); ok && appErr.Code == apperror.CodeConflict {
			log.Info("demo staff already exist, skipping")
			return nil
		}
		return err
	}

	for _, st := range demo {
		log.Infow("demo staff created", "code", st.Code, "link_slug", st.LinkSlug)
	}
	return nil
}
