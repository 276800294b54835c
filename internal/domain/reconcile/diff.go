package reconcile

import (
	"bytes"
	"encoding/json"
	"time"

	"assettrack/internal/core/civil"
	"assettrack/internal/domain/transaction"
)

// changed reports whether any of the reconciled fields differs between the
// external record and the local row. Year and code compare as numbers, the
// change log compares in serialized form, everything else compares as strings
// with null coerced to "".
func changed(raw *RawRecord, local *transaction.Transaction) bool {
	if raw.PartsDay != local.PartsDay {
		return true
	}
	if raw.Room != local.Room {
		return true
	}
	if raw.TransactionType != local.TransactionType {
		return true
	}
	if int64(raw.AssetYear) != local.AssetYear {
		return true
	}
	if int64(raw.AssetCode) != local.AssetCode {
		return true
	}
	if raw.StaffCode != local.StaffCode {
		return true
	}
	if strVal(raw.Note) != local.NoteValue() {
		return true
	}
	if !timeEqual(raw.NotifiedAt, local.NotifiedAt) {
		return true
	}
	if raw.IsDeleted != local.IsDeleted {
		return true
	}
	if !timePtrEqual(raw.DeletedAt, local.DeletedAt) {
		return true
	}
	if strVal(raw.DeletedBy) != strVal(local.DeletedBy) {
		return true
	}
	if !changeLogsEqual(raw.ChangeLogs, local.ChangeLogs) {
		return true
	}
	return false
}

// overlay copies the reconciled fields of raw onto the local row.
func overlay(raw *RawRecord, local *transaction.Transaction) {
	local.PartsDay = raw.PartsDay
	local.Room = raw.Room
	local.TransactionType = raw.TransactionType
	local.AssetYear = int64(raw.AssetYear)
	local.AssetCode = int64(raw.AssetCode)
	local.StaffCode = raw.StaffCode
	local.Note = raw.Note
	local.NotifiedAt = raw.NotifiedAt
	local.IsDeleted = raw.IsDeleted
	local.DeletedAt = raw.DeletedAt
	local.DeletedBy = raw.DeletedBy
	local.ChangeLogs = raw.ChangeLogs
}

// materialize builds a fresh local row from an external record.
// Identity and creation timestamp are stamped by the engine at apply time.
func materialize(raw *RawRecord) *transaction.Transaction {
	tx := &transaction.Transaction{}
	overlay(raw, tx)
	if day, err := civil.Parse(truncateDate(raw.TransactionDate)); err == nil {
		tx.TransactionDate = day
	} else if ts, err := time.Parse(time.RFC3339, raw.TransactionDate); err == nil {
		tx.TransactionDate = ts
	}
	return tx
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// timeEqual compares instants at microsecond precision, the storage
// resolution of timestamptz. Finer differences would never round-trip and
// would break idempotence.
func timeEqual(a, b time.Time) bool {
	return a.UTC().Truncate(time.Microsecond).Equal(b.UTC().Truncate(time.Microsecond))
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return timeEqual(*a, *b)
}

func changeLogsEqual(a, b []transaction.ChangeEvent) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	aj, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bj, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(aj, bj)
}
