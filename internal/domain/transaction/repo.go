package transaction

import (
	"context"
	"time"

	"assettrack/internal/core/id"
)

// Repository defines persistence for transactions.
type Repository interface {
	// Create inserts a single row.
	Create(ctx context.Context, tx *Transaction) error

	// InsertBatch inserts rows in one statement. Callers chunk the input.
	InsertBatch(ctx context.Context, txs []*Transaction) error

	// Update rewrites a row by identity.
	Update(ctx context.Context, tx *Transaction) error

	// GetByID retrieves a row by identity.
	GetByID(ctx context.Context, txID id.ID) (*Transaction, error)

	// ListByNotifiedRange returns rows whose notified_at falls in [start, end).
	ListByNotifiedRange(ctx context.Context, start, end time.Time) ([]*Transaction, error)

	// ListByDate returns rows whose transaction_date falls in [start, end),
	// active rows first, ordered by notified_at.
	ListByDate(ctx context.Context, start, end time.Time, includeDeleted bool) ([]*Transaction, error)

	// HardDelete removes a row permanently. Admin action only.
	HardDelete(ctx context.Context, txID id.ID) error
}
