package gate

import (
	"testing"

	"assettrack/internal/core/session"
)

func TestEvaluate_LinkSessionOverridesRole(t *testing.T) {
	// Kiosk mode must win even over admin.
	s := &session.Session{LinkUser: "nguyen.van.a", Role: session.RoleAdmin}

	tests := []struct {
		path string
		want Outcome
	}{
		{"/asset-entry", Allow},
		{"/asset-entry/new", Allow},
		{"/daily-report", Redirect},
		{"/settings", Redirect},
		{"/sign-in", Allow},
		{"/sign-out", Allow},
		{"/icons/app.png", Allow},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			d := Evaluate(tt.path, s)
			if d.Outcome != tt.want {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.path, d.Outcome, tt.want)
			}
			if d.Outcome == Redirect && d.Target != PathAssetEntry {
				t.Errorf("redirect target = %q, want %q", d.Target, PathAssetEntry)
			}
		})
	}
}

func TestEvaluate_AdminAllowsEverything(t *testing.T) {
	s := &session.Session{Role: session.RoleAdmin, Department: "whatever"}

	for _, path := range []string{"/asset-entry", "/daily-report", "/settings", "/staff", "/anything/else"} {
		if d := Evaluate(path, s); d.Outcome != Allow {
			t.Errorf("Evaluate(%q) = %v, want Allow", path, d.Outcome)
		}
	}
}

func TestEvaluate_ManagementDeptRestrictedToEntry(t *testing.T) {
	s := &session.Session{Role: session.RoleUser, Department: session.DeptManagement}

	if d := Evaluate("/asset-entry/edit/42", s); d.Outcome != Allow {
		t.Errorf("asset-entry sub-path should be allowed, got %v", d.Outcome)
	}
	d := Evaluate("/daily-report", s)
	if d.Outcome != Redirect || d.Target != PathAssetEntry {
		t.Errorf("daily-report for QLN = %+v, want redirect to %s", d, PathAssetEntry)
	}
}

func TestEvaluate_TreasuryDeptGetsDailyReport(t *testing.T) {
	s := &session.Session{Role: session.RoleUser, Department: session.DeptTreasury}

	if d := Evaluate("/daily-report", s); d.Outcome != Allow {
		t.Errorf("daily-report for NQ = %v, want Allow", d.Outcome)
	}
	if d := Evaluate("/daily-report/2026-08-29", s); d.Outcome != Allow {
		t.Errorf("daily-report sub-path for NQ = %v, want Allow", d.Outcome)
	}
	if d := Evaluate("/settings", s); d.Outcome != Redirect {
		t.Errorf("settings for NQ = %v, want Redirect", d.Outcome)
	}
}

func TestEvaluate_FailOpenWithoutRole(t *testing.T) {
	tests := []*session.Session{
		nil,
		{},
		{Role: session.RoleUnset, Department: ""},
		{Role: "manager"}, // unrecognized value degrades to unset
	}

	for _, s := range tests {
		for _, path := range []string{"/asset-entry", "/daily-report", "/settings", "/whatever"} {
			if d := Evaluate(path, s); d.Outcome != Allow {
				t.Errorf("Evaluate(%q, %+v) = %v, want Allow (fail-open)", path, s, d.Outcome)
			}
		}
	}
}

func TestEvaluate_StaticAssetsAlwaysPass(t *testing.T) {
	// Static paths pass even in the most restricted mode.
	s := &session.Session{LinkUser: "kiosk"}

	paths := []string{
		"/",
		"/_next/static/chunks/main.js",
		"/favicon.ico",
		"/logo.svg",
		"/fonts/inter.woff2",
		"/media/demo.mp4",
		"/manual.pdf",
	}
	for _, path := range paths {
		if d := Evaluate(path, s); d.Outcome != Allow {
			t.Errorf("Evaluate(%q) = %v, want Allow", path, d.Outcome)
		}
	}
}
