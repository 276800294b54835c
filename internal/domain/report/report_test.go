package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assettrack/internal/core/civil"
	"assettrack/internal/core/id"
	"assettrack/internal/domain/transaction"
)

// orderedRepo returns rows in insertion order, like the real repository
// ordered by notified_at.
type orderedRepo struct {
	rows []*transaction.Transaction
}

func (r *orderedRepo) Create(ctx context.Context, tx *transaction.Transaction) error {
	r.rows = append(r.rows, tx)
	return nil
}

func (r *orderedRepo) InsertBatch(ctx context.Context, txs []*transaction.Transaction) error {
	r.rows = append(r.rows, txs...)
	return nil
}

func (r *orderedRepo) Update(ctx context.Context, tx *transaction.Transaction) error { return nil }

func (r *orderedRepo) GetByID(ctx context.Context, txID id.ID) (*transaction.Transaction, error) {
	return nil, nil
}

func (r *orderedRepo) ListByNotifiedRange(ctx context.Context, start, end time.Time) ([]*transaction.Transaction, error) {
	return nil, nil
}

func (r *orderedRepo) ListByDate(ctx context.Context, start, end time.Time, includeDeleted bool) ([]*transaction.Transaction, error) {
	var out []*transaction.Transaction
	for _, tx := range r.rows {
		if tx.TransactionDate.Before(start) || !tx.TransactionDate.Before(end) {
			continue
		}
		if tx.IsDeleted && !includeDeleted {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

func (r *orderedRepo) HardDelete(ctx context.Context, txID id.ID) error { return nil }

var reportDay = time.Date(2026, 8, 29, 9, 0, 0, 0, civil.Zone)

func entry(room, txType string, year, code int64, staffCode string) *transaction.Transaction {
	return &transaction.Transaction{
		ID:              id.New(),
		TransactionDate: reportDay,
		PartsDay:        "morning",
		Room:            room,
		TransactionType: txType,
		AssetYear:       year,
		AssetCode:       code,
		StaffCode:       staffCode,
		NotifiedAt:      reportDay,
		CreatedDate:     reportDay,
	}
}

func TestDailyAggregates(t *testing.T) {
	repo := &orderedRepo{}
	svc := NewService(transaction.NewService(repo, nil))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, entry("A101", transaction.TypeCheckOut, 2024, 1, "NV001")))
	require.NoError(t, repo.Create(ctx, entry("A101", transaction.TypeCheckIn, 2024, 1, "NV001")))
	require.NoError(t, repo.Create(ctx, entry("B202", transaction.TypeCheckOut, 2024, 2, "NV002")))

	deleted := entry("B202", transaction.TypeCheckOut, 2024, 3, "NV002")
	deleted.IsDeleted = true
	require.NoError(t, repo.Create(ctx, deleted))

	daily, err := svc.Daily(ctx, civil.DateOf(reportDay))
	require.NoError(t, err)

	assert.Equal(t, 4, daily.Total)
	assert.Equal(t, 1, daily.Deleted)
	assert.Equal(t, 2, daily.ByRoom["A101"])
	assert.Equal(t, 1, daily.ByRoom["B202"])
	assert.Equal(t, 2, daily.ByType[transaction.TypeCheckOut])
	assert.Equal(t, 1, daily.ByType[transaction.TypeCheckIn])

	// Asset 2024/1 was returned; only 2024/2 is outstanding. The deleted
	// check-out never counts.
	require.Len(t, daily.Outstanding, 1)
	assert.Equal(t, int64(2), daily.Outstanding[0].AssetCode)
	assert.Equal(t, "NV002", daily.Outstanding[0].StaffCode)
}

func TestDailyLastEntryWinsPerAsset(t *testing.T) {
	repo := &orderedRepo{}
	svc := NewService(transaction.NewService(repo, nil))
	ctx := context.Background()

	// Checked in, then checked out again later the same day.
	require.NoError(t, repo.Create(ctx, entry("A101", transaction.TypeCheckOut, 2024, 5, "NV001")))
	require.NoError(t, repo.Create(ctx, entry("A101", transaction.TypeCheckIn, 2024, 5, "NV001")))
	require.NoError(t, repo.Create(ctx, entry("C303", transaction.TypeCheckOut, 2024, 5, "NV003")))

	daily, err := svc.Daily(ctx, civil.DateOf(reportDay))
	require.NoError(t, err)

	require.Len(t, daily.Outstanding, 1)
	assert.Equal(t, "C303", daily.Outstanding[0].Room)
	assert.Equal(t, "NV003", daily.Outstanding[0].StaffCode)
}

func TestDailyEmptyDay(t *testing.T) {
	svc := NewService(transaction.NewService(&orderedRepo{}, nil))

	daily, err := svc.Daily(context.Background(), civil.DateOf(reportDay))
	require.NoError(t, err)

	assert.Equal(t, 0, daily.Total)
	assert.Empty(t, daily.Outstanding)
}
