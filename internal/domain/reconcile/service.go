package reconcile

import (
	"context"
	"time"

	"assettrack/internal/core/apperror"
	"assettrack/internal/core/civil"
	"assettrack/internal/domain/transaction"
	"assettrack/pkg/logger"
)

// Feed fetches raw records from the external notification source.
type Feed interface {
	Fetch(ctx context.Context) ([]*RawRecord, error)
}

// Result is the collaborator-facing outcome of one sync invocation.
type Result struct {
	Date string `json:"date"`
	Stats
	Status string `json:"status"`
}

// Service orchestrates a sync pass: fetch the feed, load the local window,
// run the engine.
type Service struct {
	feed   Feed
	repo   transaction.Repository
	engine *Engine
	now    func() time.Time
}

// NewService creates a sync service.
func NewService(feed Feed, repo transaction.Repository) *Service {
	return &Service{
		feed:   feed,
		repo:   repo,
		engine: NewEngine(repo),
		now:    time.Now,
	}
}

// WithClock overrides the time source for the service and its engine. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	s.engine.WithClock(now)
	return s
}

// Sync runs one reconciliation pass for the given civil date, defaulting to
// the current UTC+7 date. A feed failure aborts the whole run; a storage
// failure aborts remaining steps without undoing applied batches.
func (s *Service) Sync(ctx context.Context, date string) (*Result, error) {
	target := s.now()
	if date != "" {
		parsed, err := civil.Parse(date)
		if err != nil {
			return nil, apperror.NewValidation("invalid date").
				WithDetail("field", "date").
				WithDetail("value", date)
		}
		target = parsed
	}

	external, err := s.feed.Fetch(ctx)
	if err != nil {
		return nil, apperror.NewUpstream("external feed unavailable", err)
	}

	// Local rows for the [yesterday 00:00, tomorrow 00:00) window in UTC+7.
	start, _ := civil.DayBounds(target.In(civil.Zone).AddDate(0, 0, -1))
	_, end := civil.DayBounds(target)
	local, err := s.repo.ListByNotifiedRange(ctx, start, end)
	if err != nil {
		return nil, apperror.NewDatabase(err)
	}

	stats, err := s.engine.Run(ctx, external, local, target)
	if err != nil {
		return nil, apperror.NewDatabase(err)
	}

	logger.Info(ctx, "sync complete",
		"date", civil.DateOf(target),
		"fetched", stats.Fetched,
		"inserted", stats.Inserted,
		"updated", stats.Updated,
		"skipped", stats.Skipped,
		"duration_ms", stats.DurationMs,
	)

	return &Result{
		Date:   civil.DateOf(target),
		Stats:  stats,
		Status: "ok",
	}, nil
}
