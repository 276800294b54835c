// Package report builds the daily summary of asset movements for one civil
// date: totals per room, parts of day and transaction type, plus the assets
// still checked out at the end of the window.
package report

import (
	"context"
	"fmt"
	"time"

	"assettrack/internal/core/civil"
	"assettrack/internal/domain/transaction"
)

// Daily is the aggregated report for one civil date.
type Daily struct {
	Date    string `json:"date"`
	Total   int    `json:"total"`
	Deleted int    `json:"deleted"`

	ByRoom     map[string]int `json:"byRoom"`
	ByPartsDay map[string]int `json:"byPartsDay"`
	ByType     map[string]int `json:"byType"`

	// Outstanding lists checked-out assets without a matching check-in.
	Outstanding []OutstandingAsset `json:"outstanding"`
}

// OutstandingAsset identifies an asset not yet returned.
type OutstandingAsset struct {
	AssetYear int64  `json:"assetYear"`
	AssetCode int64  `json:"assetCode"`
	Room      string `json:"room"`
	StaffCode string `json:"staffCode"`
}

// Service computes daily reports from transaction entries.
type Service struct {
	txs *transaction.Service
	now func() time.Time
}

// NewService creates a report service.
func NewService(txs *transaction.Service) *Service {
	return &Service{txs: txs, now: time.Now}
}

// WithClock overrides the time source. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Daily aggregates all entries for the given civil date. Soft-deleted rows
// count separately and are excluded from the breakdowns.
func (s *Service) Daily(ctx context.Context, date string) (*Daily, error) {
	if date == "" {
		date = civil.Today(s.now())
	}
	rows, err := s.txs.ListByDate(ctx, date, true)
	if err != nil {
		return nil, err
	}

	rep := &Daily{
		Date:       date,
		ByRoom:     map[string]int{},
		ByPartsDay: map[string]int{},
		ByType:     map[string]int{},
	}

	// Track net check-out state per asset; later entries supersede earlier
	// ones within the day.
	type assetState struct {
		out  bool
		last *transaction.Transaction
	}
	assets := map[string]*assetState{}

	for _, row := range rows {
		rep.Total++
		if row.IsDeleted {
			rep.Deleted++
			continue
		}

		rep.ByRoom[row.Room]++
		rep.ByPartsDay[row.PartsDay]++
		rep.ByType[row.TransactionType]++

		key := fmt.Sprintf("%d/%d", row.AssetYear, row.AssetCode)
		state, ok := assets[key]
		if !ok {
			state = &assetState{}
			assets[key] = state
		}
		state.out = row.TransactionType == transaction.TypeCheckOut
		state.last = row
	}

	for _, state := range assets {
		if !state.out {
			continue
		}
		rep.Outstanding = append(rep.Outstanding, OutstandingAsset{
			AssetYear: state.last.AssetYear,
			AssetCode: state.last.AssetCode,
			Room:      state.last.Room,
			StaffCode: state.last.StaffCode,
		})
	}

	return rep, nil
}
