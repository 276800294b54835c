package dto

import "assettrack/internal/domain/reconcile"

// SyncRequest optionally pins the reconciliation target date.
type SyncRequest struct {
	Date string `json:"date"`
}

// SyncResponse reports the outcome of one reconciliation run.
type SyncResponse struct {
	Date          string `json:"date"`
	Fetched       int    `json:"fetched"`
	FilteredToday int    `json:"filteredToday"`
	Inserted      int    `json:"inserted"`
	Updated       int    `json:"updated"`
	Skipped       int    `json:"skipped"`
	DurationMs    int64  `json:"durationMs"`
	Status        string `json:"status"`
}

// FromSyncResult creates SyncResponse from the domain result.
func FromSyncResult(r *reconcile.Result) SyncResponse {
	return SyncResponse{
		Date:          r.Date,
		Fetched:       r.Fetched,
		FilteredToday: r.ConsideredInWindow,
		Inserted:      r.Inserted,
		Updated:       r.Updated,
		Skipped:       r.Skipped,
		DurationMs:    r.DurationMs,
		Status:        r.Status,
	}
}
