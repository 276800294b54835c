package scheduler

import (
	"testing"
	"time"
)

func TestGap_SuppressesWithinWindow(t *testing.T) {
	gap := NewGap(time.Minute)
	base := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	if !gap.Allow(base) {
		t.Fatal("first trigger must pass")
	}
	if gap.Allow(base.Add(30 * time.Second)) {
		t.Error("trigger inside the gap must be suppressed")
	}
	if !gap.Allow(base.Add(61 * time.Second)) {
		t.Error("trigger after the gap must pass")
	}
}

func TestGap_SuppressedTriggerDoesNotExtendWindow(t *testing.T) {
	gap := NewGap(time.Minute)
	base := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	gap.Allow(base)
	gap.Allow(base.Add(45 * time.Second)) // suppressed

	// The window counts from the last permitted trigger, not the last attempt.
	if !gap.Allow(base.Add(60 * time.Second)) {
		t.Error("window must be measured from the permitted trigger")
	}
}
