package transaction

import (
	"context"
	"time"

	"assettrack/internal/core/apperror"
	"assettrack/internal/core/civil"
	"assettrack/internal/core/id"
	"assettrack/internal/core/session"
)

// Auditor archives change events outside the row itself.
// Implementations must be best-effort; archival failure never blocks the edit.
type Auditor interface {
	Archive(ctx context.Context, txID id.ID, events []ChangeEvent) error
}

// Service provides business logic for transaction entries.
type Service struct {
	repo    Repository
	auditor Auditor
	now     func() time.Time
}

// NewService creates a transaction service. auditor may be nil.
func NewService(repo Repository, auditor Auditor) *Service {
	return &Service{repo: repo, auditor: auditor, now: time.Now}
}

// WithClock overrides the time source. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateInput carries the fields of a new entry.
type CreateInput struct {
	TransactionDate time.Time
	PartsDay        string
	Room            string
	TransactionType string
	AssetYear       int64
	AssetCode       int64
	StaffCode       string
	Note            *string
}

// Create validates and inserts a new entry from the user flow.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Transaction, error) {
	if in.Room == "" {
		return nil, apperror.NewValidation("room is required").WithDetail("field", "room")
	}
	if in.StaffCode == "" {
		return nil, apperror.NewValidation("staff code is required").WithDetail("field", "staffCode")
	}
	switch in.TransactionType {
	case TypeCheckIn, TypeCheckOut:
	default:
		return nil, apperror.NewValidation("invalid transaction type").
			WithDetail("field", "transactionType").
			WithDetail("value", in.TransactionType)
	}

	now := s.now()
	tx := &Transaction{
		ID:              id.New(),
		TransactionDate: in.TransactionDate,
		PartsDay:        in.PartsDay,
		Room:            in.Room,
		TransactionType: in.TransactionType,
		AssetYear:       in.AssetYear,
		AssetCode:       in.AssetCode,
		StaffCode:       in.StaffCode,
		Note:            in.Note,
		NotifiedAt:      now,
		CreatedDate:     now,
	}

	if err := s.repo.Create(ctx, tx); err != nil {
		return nil, apperror.NewDatabase(err)
	}
	return tx, nil
}

// EditNote replaces the note and appends a change-log entry.
func (s *Service) EditNote(ctx context.Context, txID id.ID, note string) (*Transaction, error) {
	tx, err := s.repo.GetByID(ctx, txID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	old := tx.NoteValue()
	if old == note {
		return tx, nil
	}

	tx.Note = &note
	tx.AppendChange("note", old, note, editorCode(ctx), now)
	tx.UpdatedDate = &now

	if err := s.repo.Update(ctx, tx); err != nil {
		return nil, apperror.NewDatabase(err)
	}
	s.archive(ctx, tx)
	return tx, nil
}

// SoftDelete flips is_deleted, stamps deleted_at/by and logs the change.
func (s *Service) SoftDelete(ctx context.Context, txID id.ID) (*Transaction, error) {
	tx, err := s.repo.GetByID(ctx, txID)
	if err != nil {
		return nil, err
	}
	if tx.IsDeleted {
		return tx, nil
	}

	now := s.now()
	tx.MarkDeleted(editorCode(ctx), now)
	tx.UpdatedDate = &now

	if err := s.repo.Update(ctx, tx); err != nil {
		return nil, apperror.NewDatabase(err)
	}
	s.archive(ctx, tx)
	return tx, nil
}

// HardDelete permanently removes a row. Admin only.
func (s *Service) HardDelete(ctx context.Context, txID id.ID) error {
	sess := session.Get(ctx)
	if sess == nil || !sess.IsAdmin() {
		return apperror.NewForbidden("admin role required")
	}
	return s.repo.HardDelete(ctx, txID)
}

// Get returns a single entry by identity.
func (s *Service) Get(ctx context.Context, txID id.ID) (*Transaction, error) {
	return s.repo.GetByID(ctx, txID)
}

// ListByDate returns the entries for one civil date.
func (s *Service) ListByDate(ctx context.Context, date string, includeDeleted bool) ([]*Transaction, error) {
	day, err := civil.Parse(date)
	if err != nil {
		return nil, apperror.NewValidation("invalid date").
			WithDetail("field", "date").
			WithDetail("value", date)
	}
	start, end := civil.DayBounds(day)
	txs, err := s.repo.ListByDate(ctx, start, end, includeDeleted)
	if err != nil {
		return nil, apperror.NewDatabase(err)
	}
	return txs, nil
}

func (s *Service) archive(ctx context.Context, tx *Transaction) {
	if s.auditor == nil {
		return
	}
	_ = s.auditor.Archive(ctx, tx.ID, tx.ChangeLogs)
}

// editorCode resolves the acting staff code from the session, falling back
// to the link-login username in kiosk mode.
func editorCode(ctx context.Context) string {
	sess := session.Get(ctx)
	if sess == nil {
		return ""
	}
	if sess.StaffCode != "" {
		return sess.StaffCode
	}
	return sess.LinkUser
}
