package tui

import (
	"time"

	"github.com/dm/halla-watch/internal/model"
)

// SweepMsg delivers a successful sweep to the TUI.
type SweepMsg struct {
	Update model.Update
}

// SweepErrorMsg signals a failed sweep. The previous state is kept.
type SweepErrorMsg struct{ Err error }

// sweepSkippedMsg reports that no sweep ran (one was in flight or the app
// is shutting down).
type sweepSkippedMsg struct{}

// TickMsg triggers the next scheduled sweep. Only the tick armed by the
// most recent scheduleNext is honoured.
type TickMsg struct {
	At  time.Time
	seq int
}

// clearAlertMsg hides the alert banner raised by sweep number seq.
type clearAlertMsg struct{ seq int }
