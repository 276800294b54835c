package reconcile

import (
	"context"
	"time"

	"assettrack/internal/core/civil"
	"assettrack/internal/core/id"
	"assettrack/internal/domain/transaction"
	"assettrack/pkg/logger"
)

// insertChunkSize is the batch size for applying inserts.
const insertChunkSize = 100

// Stats summarizes one reconciliation pass.
type Stats struct {
	Fetched            int   `json:"fetched"`
	ConsideredInWindow int   `json:"filteredToday"`
	Inserted           int   `json:"inserted"`
	Updated            int   `json:"updated"`
	Skipped            int   `json:"skipped"`
	DurationMs         int64 `json:"durationMs"`
}

// Engine reconciles external feed records against local rows by natural key.
type Engine struct {
	repo transaction.Repository
	now  func() time.Time
}

// NewEngine creates a reconciliation engine.
func NewEngine(repo transaction.Repository) *Engine {
	return &Engine{repo: repo, now: time.Now}
}

// WithClock overrides the time source. Tests only.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Run merges external into the table holding local, restricted to records
// whose notified_at falls on the target civil date or the day before, both
// in fixed UTC+7.
//
// Inserts are applied in sequential chunks in list order, then updates one by
// one in list order. The first storage error aborts the run; chunks already
// applied stay applied (best-effort, the next pass converges).
func (e *Engine) Run(ctx context.Context, external []*RawRecord, local []*transaction.Transaction, target time.Time) (Stats, error) {
	started := e.now()
	stats := Stats{Fetched: len(external)}

	today := civil.DateOf(target)
	yesterday := civil.Yesterday(target)

	byKey := make(map[transaction.NaturalKey]*transaction.Transaction, len(local))
	for _, row := range local {
		byKey[row.Key()] = row
	}

	var (
		inserts []*transaction.Transaction
		updates []*transaction.Transaction
		pending = make(map[transaction.NaturalKey]*transaction.Transaction)
		queued  = make(map[transaction.NaturalKey]bool)
	)

	for _, raw := range external {
		day := civil.DateOf(raw.NotifiedAt)
		if day != today && day != yesterday {
			continue
		}
		stats.ConsideredInWindow++

		key := raw.Key()

		// A key already staged this pass collapses: last write wins. A row
		// first staged as a skip still promotes to an update when a later
		// duplicate carries real changes.
		if staged, ok := pending[key]; ok {
			if changed(raw, staged) {
				overlay(raw, staged)
				if !queued[key] {
					updates = append(updates, staged)
					queued[key] = true
					stats.Updated++
					continue
				}
			}
			stats.Skipped++
			continue
		}

		row, found := byKey[key]
		if !found {
			candidate := materialize(raw)
			inserts = append(inserts, candidate)
			pending[key] = candidate
			queued[key] = true
			stats.Inserted++
			continue
		}

		if !changed(raw, row) {
			pending[key] = row
			stats.Skipped++
			continue
		}

		overlay(raw, row)
		updates = append(updates, row)
		pending[key] = row
		queued[key] = true
		stats.Updated++
	}

	now := e.now()
	for start := 0; start < len(inserts); start += insertChunkSize {
		end := min(start+insertChunkSize, len(inserts))
		chunk := inserts[start:end]
		for _, tx := range chunk {
			tx.ID = id.New()
			tx.CreatedDate = now
		}
		if err := e.repo.InsertBatch(ctx, chunk); err != nil {
			stats.DurationMs = e.now().Sub(started).Milliseconds()
			return stats, err
		}
	}

	for _, tx := range updates {
		updatedAt := e.now()
		tx.UpdatedDate = &updatedAt
		if err := e.repo.Update(ctx, tx); err != nil {
			stats.DurationMs = e.now().Sub(started).Milliseconds()
			return stats, err
		}
	}

	stats.DurationMs = e.now().Sub(started).Milliseconds()
	logger.Debug(ctx, "reconciliation pass complete",
		"fetched", stats.Fetched,
		"considered", stats.ConsideredInWindow,
		"inserted", stats.Inserted,
		"updated", stats.Updated,
		"skipped", stats.Skipped,
	)
	return stats, nil
}
