package tui

import (
	"testing"

	"github.com/dm/halla-watch/internal/model"
)

func TestThreshold_Occupancy(t *testing.T) {
	cases := []struct {
		reserve, limit int
		want           severity
	}{
		{0, 10, severityNormal},
		{5, 10, severityNormal},
		{9, 10, severityNormal}, // boundary: >90% triggers warning
		{91, 100, severityWarning},
		{99, 100, severityWarning},
		{100, 100, severityCritical},
		{120, 100, severityCritical},
		{0, 0, severityCritical},
	}
	for _, tc := range cases {
		got := occupancySeverity(model.NewAvailability("244", tc.reserve, tc.limit))
		if got != tc.want {
			t.Errorf("occupancySeverity(%d/%d) = %v, want %v", tc.reserve, tc.limit, got, tc.want)
		}
	}
}

func TestSeverityToStyle(t *testing.T) {
	if severityToStyle(severityCritical).GetForeground() != colorRed {
		t.Error("critical should render red")
	}
	if severityToStyle(severityWarning).GetForeground() != colorYellow {
		t.Error("warning should render yellow")
	}
	if severityToStyle(severityNormal).GetForeground() != colorGreen {
		t.Error("normal should render green")
	}
}
