// Package scheduler runs the periodic background jobs: the feed sync pass
// and the daily overdue-return reminder. State is process-scoped and
// injected; the scheduler owns its lifecycle from Start to Stop.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"assettrack/internal/domain/reconcile"
	"assettrack/internal/domain/reminder"
	"assettrack/pkg/logger"
)

// Gap suppresses duplicate trigger firings within a minimum interval.
// It is a best-effort debounce, not a mutual-exclusion primitive: the
// reconciliation engine's idempotence is the actual correctness backstop.
type Gap struct {
	mu   sync.Mutex
	last time.Time
	min  time.Duration
}

// NewGap creates a guard with the given minimum interval.
func NewGap(min time.Duration) *Gap {
	return &Gap{min: min}
}

// Allow records and permits a trigger unless one fired within the minimum
// interval.
func (g *Gap) Allow(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.last.IsZero() && now.Sub(g.last) < g.min {
		return false
	}
	g.last = now
	return true
}

// Config holds scheduler configuration.
type Config struct {
	SyncInterval time.Duration
	SyncMinGap   time.Duration

	ReminderEnabled bool
	// ReminderAt is the daily send time, "HH:MM" in UTC+7.
	ReminderAt string
}

// Scheduler drives the background jobs.
type Scheduler struct {
	cfg       Config
	sync      *reconcile.Service
	reminders *reminder.Service
	gap       *Gap
	cron      *gocron.Scheduler
}

// New creates a scheduler. reminders may be nil when the job is disabled.
func New(cfg Config, syncSvc *reconcile.Service, reminders *reminder.Service, zone *time.Location) *Scheduler {
	return &Scheduler{
		cfg:       cfg,
		sync:      syncSvc,
		reminders: reminders,
		gap:       NewGap(cfg.SyncMinGap),
		cron:      gocron.NewScheduler(zone),
	}
}

// Start registers the jobs and begins running them asynchronously.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.Every(s.cfg.SyncInterval).Do(func() { s.runSync(ctx) }); err != nil {
		return err
	}

	if s.cfg.ReminderEnabled && s.reminders != nil {
		if _, err := s.cron.Every(1).Day().At(s.cfg.ReminderAt).Do(func() { s.runReminders(ctx) }); err != nil {
			return err
		}
	}

	s.cron.StartAsync()
	logger.Info(ctx, "scheduler started",
		"sync_interval", s.cfg.SyncInterval,
		"sync_min_gap", s.cfg.SyncMinGap,
		"reminders", s.cfg.ReminderEnabled,
	)
	return nil
}

// Stop halts the job loop. In-flight runs are not cancelled.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// TriggerSync runs a sync pass subject to the minimum-gap guard, for use by
// external triggers sharing the debounce with the interval job.
func (s *Scheduler) TriggerSync(ctx context.Context) {
	s.runSync(ctx)
}

func (s *Scheduler) runSync(ctx context.Context) {
	if !s.gap.Allow(time.Now()) {
		logger.Debug(ctx, "sync trigger suppressed by min-gap guard")
		return
	}
	if _, err := s.sync.Sync(ctx, ""); err != nil {
		// Background failures are logged only; the next cycle retries.
		logger.Error(ctx, "background sync failed", "error", err)
	}
}

func (s *Scheduler) runReminders(ctx context.Context) {
	if err := s.reminders.Run(ctx); err != nil {
		logger.Error(ctx, "reminder run failed", "error", err)
	}
}
