package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"assettrack/internal/core/civil"
	"assettrack/internal/core/id"
	"assettrack/internal/domain/transaction"
)

// fakeRepo is an in-memory transaction.Repository for engine tests.
type fakeRepo struct {
	rows        []*transaction.Transaction
	batchSizes  []int
	updateCalls int
	failAfter   int // fail the nth InsertBatch call (1-based), 0 = never
	batchCalls  int
}

func (f *fakeRepo) Create(ctx context.Context, tx *transaction.Transaction) error {
	f.rows = append(f.rows, tx)
	return nil
}

func (f *fakeRepo) InsertBatch(ctx context.Context, txs []*transaction.Transaction) error {
	f.batchCalls++
	if f.failAfter > 0 && f.batchCalls >= f.failAfter {
		return errors.New("insert failed")
	}
	f.batchSizes = append(f.batchSizes, len(txs))
	f.rows = append(f.rows, txs...)
	return nil
}

func (f *fakeRepo) Update(ctx context.Context, tx *transaction.Transaction) error {
	f.updateCalls++
	for i, row := range f.rows {
		if row.ID == tx.ID {
			f.rows[i] = tx
			return nil
		}
	}
	return errors.New("row not found")
}

func (f *fakeRepo) GetByID(ctx context.Context, txID id.ID) (*transaction.Transaction, error) {
	for _, row := range f.rows {
		if row.ID == txID {
			return row, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeRepo) ListByNotifiedRange(ctx context.Context, start, end time.Time) ([]*transaction.Transaction, error) {
	var out []*transaction.Transaction
	for _, row := range f.rows {
		if !row.NotifiedAt.Before(start) && row.NotifiedAt.Before(end) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByDate(ctx context.Context, start, end time.Time, includeDeleted bool) ([]*transaction.Transaction, error) {
	return nil, nil
}

func (f *fakeRepo) HardDelete(ctx context.Context, txID id.ID) error { return nil }

var testNow = time.Date(2026, 8, 29, 10, 0, 0, 0, civil.Zone)

func rawRecord(room string, code int64, notified time.Time) *RawRecord {
	return &RawRecord{
		TransactionDate: notified.In(civil.Zone).Format(civil.Layout),
		PartsDay:        "morning",
		Room:            room,
		TransactionType: transaction.TypeCheckOut,
		AssetYear:       2024,
		AssetCode:       FlexInt64(code),
		StaffCode:       "NV012",
		NotifiedAt:      notified,
	}
}

func TestRun_Idempotence(t *testing.T) {
	repo := &fakeRepo{}
	engine := NewEngine(repo).WithClock(func() time.Time { return testNow })
	ctx := context.Background()

	feed := []*RawRecord{
		rawRecord("A101", 1, testNow),
		rawRecord("A102", 2, testNow.Add(-time.Hour)),
		rawRecord("B201", 3, testNow.AddDate(0, 0, -1)), // yesterday, still in window
	}

	stats, err := engine.Run(ctx, feed, nil, testNow)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if stats.Inserted != 3 || stats.Updated != 0 {
		t.Fatalf("first run: inserted=%d updated=%d, want 3/0", stats.Inserted, stats.Updated)
	}

	// Second pass over the unchanged feed against the rows the first pass
	// produced must be a no-op.
	stats, err = engine.Run(ctx, feed, repo.rows, testNow)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if stats.Inserted != 0 || stats.Updated != 0 {
		t.Errorf("second run: inserted=%d updated=%d, want 0/0", stats.Inserted, stats.Updated)
	}
	if stats.Skipped != 3 {
		t.Errorf("second run: skipped=%d, want 3", stats.Skipped)
	}
}

func TestRun_WindowFiltering(t *testing.T) {
	repo := &fakeRepo{}
	engine := NewEngine(repo).WithClock(func() time.Time { return testNow })

	feed := []*RawRecord{
		rawRecord("A101", 1, testNow),
		rawRecord("A102", 2, testNow.AddDate(0, 0, -3)), // three days old: excluded
	}

	stats, err := engine.Run(context.Background(), feed, nil, testNow)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if stats.Fetched != 2 {
		t.Errorf("fetched=%d, want 2", stats.Fetched)
	}
	if stats.ConsideredInWindow != 1 {
		t.Errorf("considered=%d, want 1", stats.ConsideredInWindow)
	}
	if stats.Inserted != 1 {
		t.Errorf("inserted=%d, want 1", stats.Inserted)
	}
}

func TestRun_WindowUsesFixedOffsetNotServerZone(t *testing.T) {
	repo := &fakeRepo{}
	engine := NewEngine(repo).WithClock(func() time.Time { return testNow })

	// 23:30 UTC on the 28th is already the 29th in UTC+7.
	notified := time.Date(2026, 8, 28, 23, 30, 0, 0, time.UTC)
	feed := []*RawRecord{rawRecord("A101", 9, notified)}

	stats, err := engine.Run(context.Background(), feed, nil, testNow)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if stats.ConsideredInWindow != 1 || stats.Inserted != 1 {
		t.Errorf("considered=%d inserted=%d, want 1/1", stats.ConsideredInWindow, stats.Inserted)
	}
}

func TestRun_NaturalKeyCollapse(t *testing.T) {
	repo := &fakeRepo{}
	engine := NewEngine(repo).WithClock(func() time.Time { return testNow })

	first := rawRecord("A101", 7, testNow)
	note1 := "first note"
	first.Note = &note1

	second := rawRecord("A101", 7, testNow)
	note2 := "second note"
	second.Note = &note2

	stats, err := engine.Run(context.Background(), []*RawRecord{first, second}, nil, testNow)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if stats.Inserted != 1 {
		t.Fatalf("inserted=%d, want 1", stats.Inserted)
	}
	if len(repo.rows) != 1 {
		t.Fatalf("rows=%d, want 1", len(repo.rows))
	}
	// Last write wins by list order.
	if got := repo.rows[0].NoteValue(); got != "second note" {
		t.Errorf("note=%q, want %q", got, "second note")
	}
}

func TestRun_DuplicateAfterSkipPromotesUpdate(t *testing.T) {
	repo := &fakeRepo{}
	engine := NewEngine(repo).WithClock(func() time.Time { return testNow })
	ctx := context.Background()

	if _, err := engine.Run(ctx, []*RawRecord{rawRecord("A101", 7, testNow)}, nil, testNow); err != nil {
		t.Fatalf("seed run failed: %v", err)
	}

	// The first copy matches the stored row exactly; the second carries a
	// changed note. Last write wins, so the change must still persist.
	unchanged := rawRecord("A101", 7, testNow)
	edited := rawRecord("A101", 7, testNow)
	note := "returned damaged"
	edited.Note = &note

	stats, err := engine.Run(ctx, []*RawRecord{unchanged, edited}, repo.rows, testNow)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if stats.Updated != 1 || stats.Inserted != 0 || stats.Skipped != 1 {
		t.Errorf("updated=%d inserted=%d skipped=%d, want 1/0/1", stats.Updated, stats.Inserted, stats.Skipped)
	}
	if repo.updateCalls != 1 {
		t.Errorf("update calls=%d, want 1", repo.updateCalls)
	}
	if got := repo.rows[0].NoteValue(); got != "returned damaged" {
		t.Errorf("note=%q, want %q", got, "returned damaged")
	}
}

func TestRun_KeyNormalization(t *testing.T) {
	repo := &fakeRepo{}
	engine := NewEngine(repo).WithClock(func() time.Time { return testNow })

	local := &transaction.Transaction{
		ID:              id.New(),
		TransactionDate: time.Date(2026, 8, 29, 0, 0, 0, 0, civil.Zone),
		PartsDay:        "Morning",
		Room:            " A101 ",
		TransactionType: transaction.TypeCheckOut,
		AssetYear:       2024,
		AssetCode:       7,
		StaffCode:       "nv012",
		NotifiedAt:      testNow,
	}

	raw := rawRecord("A101", 7, testNow)
	// Same row modulo case and whitespace in the key components; the
	// remaining field values match the local row exactly, so no update.
	raw.PartsDay = "Morning"
	raw.Room = " A101 "
	raw.StaffCode = "nv012"

	stats, err := engine.Run(context.Background(), []*RawRecord{raw}, []*transaction.Transaction{local}, testNow)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if stats.Inserted != 0 || stats.Updated != 0 || stats.Skipped != 1 {
		t.Errorf("inserted=%d updated=%d skipped=%d, want 0/0/1", stats.Inserted, stats.Updated, stats.Skipped)
	}
}

func TestRun_FieldChangeTriggersUpdate(t *testing.T) {
	repo := &fakeRepo{}
	engine := NewEngine(repo).WithClock(func() time.Time { return testNow })
	ctx := context.Background()

	if _, err := engine.Run(ctx, []*RawRecord{rawRecord("A101", 7, testNow)}, nil, testNow); err != nil {
		t.Fatalf("seed run failed: %v", err)
	}

	edited := rawRecord("A101", 7, testNow)
	note := "returned late"
	edited.Note = &note

	stats, err := engine.Run(ctx, []*RawRecord{edited}, repo.rows, testNow)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if stats.Updated != 1 || stats.Inserted != 0 {
		t.Errorf("updated=%d inserted=%d, want 1/0", stats.Updated, stats.Inserted)
	}
	if repo.rows[0].UpdatedDate == nil {
		t.Error("updated row missing updated_date")
	}
}

func TestRun_InsertsChunked(t *testing.T) {
	repo := &fakeRepo{}
	engine := NewEngine(repo).WithClock(func() time.Time { return testNow })

	feed := make([]*RawRecord, 0, 250)
	for i := 0; i < 250; i++ {
		feed = append(feed, rawRecord("A101", int64(i+1), testNow))
	}

	stats, err := engine.Run(context.Background(), feed, nil, testNow)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if stats.Inserted != 250 {
		t.Fatalf("inserted=%d, want 250", stats.Inserted)
	}
	want := []int{100, 100, 50}
	if len(repo.batchSizes) != len(want) {
		t.Fatalf("batches=%v, want %v", repo.batchSizes, want)
	}
	for i, size := range want {
		if repo.batchSizes[i] != size {
			t.Errorf("batch %d size=%d, want %d", i, repo.batchSizes[i], size)
		}
	}
}

func TestRun_AbortsOnStorageErrorWithoutRollback(t *testing.T) {
	repo := &fakeRepo{failAfter: 2}
	engine := NewEngine(repo).WithClock(func() time.Time { return testNow })

	feed := make([]*RawRecord, 0, 150)
	for i := 0; i < 150; i++ {
		feed = append(feed, rawRecord("A101", int64(i+1), testNow))
	}

	_, err := engine.Run(context.Background(), feed, nil, testNow)
	if err == nil {
		t.Fatal("expected storage error")
	}
	// The first chunk stays applied.
	if len(repo.rows) != 100 {
		t.Errorf("rows after abort=%d, want 100", len(repo.rows))
	}
}
