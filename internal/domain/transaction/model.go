// Package transaction provides the asset check-in/check-out entry, the
// reconciled entity of the system. Rows are matched across data sources by a
// composite natural key, mutated through note edits and soft deletes, and
// carry an ordered change log.
package transaction

import (
	"strings"
	"time"

	"assettrack/internal/core/civil"
	"assettrack/internal/core/id"
)

// Transaction types recognized by the entry flow.
const (
	TypeCheckIn  = "check-in"
	TypeCheckOut = "check-out"
)

// ChangeEvent is a single entry in a transaction's change log.
type ChangeEvent struct {
	Time     time.Time `json:"time"`
	Field    string    `json:"field"`
	OldValue string    `json:"old_value"`
	NewValue string    `json:"new_value"`
	EditedBy string    `json:"edited_by"`
}

// Transaction is an asset movement row in the local authoritative table.
type Transaction struct {
	ID id.ID `db:"id" json:"id"`

	TransactionDate time.Time `db:"transaction_date" json:"transactionDate"`
	PartsDay        string    `db:"parts_day" json:"partsDay"`
	Room            string    `db:"room" json:"room"`
	TransactionType string    `db:"transaction_type" json:"transactionType"`
	AssetYear       int64     `db:"asset_year" json:"assetYear"`
	AssetCode       int64     `db:"asset_code" json:"assetCode"`
	StaffCode       string    `db:"staff_code" json:"staffCode"`

	Note       *string   `db:"note" json:"note,omitempty"`
	NotifiedAt time.Time `db:"notified_at" json:"notifiedAt"`

	IsDeleted bool       `db:"is_deleted" json:"isDeleted"`
	DeletedAt *time.Time `db:"deleted_at" json:"deletedAt,omitempty"`
	DeletedBy *string    `db:"deleted_by" json:"deletedBy,omitempty"`

	ChangeLogs []ChangeEvent `db:"change_logs" json:"changeLogs"`

	CreatedDate time.Time  `db:"created_date" json:"createdDate"`
	UpdatedDate *time.Time `db:"updated_date" json:"updatedDate,omitempty"`
}

// AppendChange records a field mutation on the change log.
func (t *Transaction) AppendChange(field, oldValue, newValue, editedBy string, at time.Time) {
	t.ChangeLogs = append(t.ChangeLogs, ChangeEvent{
		Time:     at,
		Field:    field,
		OldValue: oldValue,
		NewValue: newValue,
		EditedBy: editedBy,
	})
}

// MarkDeleted soft-deletes the row and appends a change-log entry.
// The row itself is never removed outside an explicit admin hard delete.
func (t *Transaction) MarkDeleted(by string, at time.Time) {
	if t.IsDeleted {
		return
	}
	t.IsDeleted = true
	t.DeletedAt = &at
	t.DeletedBy = &by
	t.AppendChange("is_deleted", "false", "true", by, at)
}

// NoteValue returns the note coerced to "" when absent.
func (t *Transaction) NoteValue() string {
	if t.Note == nil {
		return ""
	}
	return *t.Note
}

// NaturalKey is the composite business identity used to match rows across
// the external feed and the local table. All components are normalized.
type NaturalKey struct {
	Date      string
	PartsDay  string
	Room      string
	Type      string
	Year      int64
	Code      int64
	StaffCode string
}

// Key computes the transaction's natural key.
func (t *Transaction) Key() NaturalKey {
	return NewNaturalKey(
		civil.DateOf(t.TransactionDate),
		t.PartsDay, t.Room, t.TransactionType,
		t.AssetYear, t.AssetCode, t.StaffCode,
	)
}

// NewNaturalKey normalizes the components: text fields are trimmed and
// lowercased, the date is truncated to YYYY-MM-DD upstream.
func NewNaturalKey(date, partsDay, room, txType string, year, code int64, staffCode string) NaturalKey {
	return NaturalKey{
		Date:      strings.TrimSpace(date),
		PartsDay:  norm(partsDay),
		Room:      norm(room),
		Type:      norm(txType),
		Year:      year,
		Code:      code,
		StaffCode: norm(staffCode),
	}
}

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
