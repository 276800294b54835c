package reconcile

import (
	"encoding/json"
	"testing"
)

func TestFlexInt64Coercion(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int64
	}{
		{"number", `2024`, 2024},
		{"numeric string", `"2024"`, 2024},
		{"padded string", `" 17 "`, 17},
		{"null", `null`, 0},
		{"empty string", `""`, 0},
		{"garbage string", `"n/a"`, 0},
		{"float truncates", `12.9`, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexInt64
			if err := json.Unmarshal([]byte(tt.in), &f); err != nil {
				t.Fatalf("unmarshal %s: %v", tt.in, err)
			}
			if int64(f) != tt.want {
				t.Errorf("got %d, want %d", int64(f), tt.want)
			}
		})
	}
}

func TestRawRecordKeyTruncatesTimestampDates(t *testing.T) {
	r := &RawRecord{
		TransactionDate: "2026-08-29T00:00:00Z",
		PartsDay:        " Morning ",
		Room:            "A101",
		TransactionType: "Check-Out",
		AssetYear:       2024,
		AssetCode:       17,
		StaffCode:       "nv012",
	}

	key := r.Key()
	if key.Date != "2026-08-29" {
		t.Errorf("date not truncated: %q", key.Date)
	}
	if key.PartsDay != "morning" || key.Type != "check-out" {
		t.Errorf("components not normalized: %+v", key)
	}
}
