// Package reconcile merges the external notification feed into the local
// transaction table without duplicating rows. Matching uses the composite
// natural key; the whole operation is idempotent over an unchanged feed.
package reconcile

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"assettrack/internal/domain/transaction"
)

// FlexInt64 is an integer coming from a loosely typed upstream payload.
// It accepts JSON numbers, numeric strings and null, coercing absent or
// unparseable values to 0.
type FlexInt64 int64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt64) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*f = 0
			return nil
		}
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = FlexInt64(n)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		*f = 0
		return nil
	}
	i, err := n.Int64()
	if err != nil {
		// Truncate floats the way the upstream sends them.
		if fl, ferr := n.Float64(); ferr == nil {
			*f = FlexInt64(int64(fl))
			return nil
		}
		*f = 0
		return nil
	}
	*f = FlexInt64(i)
	return nil
}

// RawRecord is one record from the external feed, validated at the boundary.
type RawRecord struct {
	TransactionDate string     `json:"transaction_date"`
	PartsDay        string     `json:"parts_day"`
	Room            string     `json:"room"`
	TransactionType string     `json:"transaction_type"`
	AssetYear       FlexInt64  `json:"asset_year"`
	AssetCode       FlexInt64  `json:"asset_code"`
	StaffCode       string     `json:"staff_code"`
	Note            *string    `json:"note"`
	NotifiedAt      time.Time  `json:"notified_at"`
	IsDeleted       bool       `json:"is_deleted"`
	DeletedAt       *time.Time `json:"deleted_at"`
	DeletedBy       *string    `json:"deleted_by"`

	ChangeLogs []transaction.ChangeEvent `json:"change_logs"`
}

// Key computes the record's natural key. The date component is truncated to
// YYYY-MM-DD; text components are trimmed and lowercased.
func (r *RawRecord) Key() transaction.NaturalKey {
	return transaction.NewNaturalKey(
		truncateDate(r.TransactionDate),
		r.PartsDay, r.Room, r.TransactionType,
		int64(r.AssetYear), int64(r.AssetCode), r.StaffCode,
	)
}

// truncateDate reduces a date-ish string to its YYYY-MM-DD prefix.
func truncateDate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
