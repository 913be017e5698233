package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dm/halla-watch/internal/model"
)

// severity represents how close a slot is to being fully booked.
type severity int

const (
	severityNormal   severity = iota
	severityWarning           // yellow
	severityCritical          // red
)

// occupancySeverity returns Critical when no places are left and Warning
// when more than 90% of the limit is reserved.
func occupancySeverity(a model.Availability) severity {
	switch {
	case !a.Available:
		return severityCritical
	case a.Occupancy()*100 > 90:
		return severityWarning
	default:
		return severityNormal
	}
}

// severityToStyle maps a severity level to the appropriate lipgloss style.
func severityToStyle(s severity) lipgloss.Style {
	switch s {
	case severityWarning:
		return StyleYellow
	case severityCritical:
		return StyleRed
	default:
		return StyleGreen
	}
}
