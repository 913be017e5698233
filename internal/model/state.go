package model

import (
	"fmt"
	"time"
)

// MonitorState is the latest complete sweep: visit date → course seq →
// Availability. All cells come from the same sweep. A published state is
// never modified; a new sweep produces a new value.
type MonitorState struct {
	Cells     map[string]map[string]Availability
	CheckedAt time.Time
}

// NewMonitorState returns an empty state with one row per date.
func NewMonitorState(dates []WatchDate, checkedAt time.Time) *MonitorState {
	cells := make(map[string]map[string]Availability, len(dates))
	for _, d := range dates {
		cells[d.Date] = make(map[string]Availability)
	}
	return &MonitorState{Cells: cells, CheckedAt: checkedAt}
}

// Cell returns the availability for (date, courseSeq).
func (s *MonitorState) Cell(date, courseSeq string) (Availability, bool) {
	if s == nil {
		return Availability{}, false
	}
	row, ok := s.Cells[date]
	if !ok {
		return Availability{}, false
	}
	a, ok := row[courseSeq]
	return a, ok
}

// Len returns the number of populated cells.
func (s *MonitorState) Len() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, row := range s.Cells {
		n += len(row)
	}
	return n
}

// AvailableCount returns the number of cells with free places.
func (s *MonitorState) AvailableCount() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, row := range s.Cells {
		for _, a := range row {
			if a.Available {
				n++
			}
		}
	}
	return n
}

// Alert reports that a (course, date) pair had free places during a sweep.
type Alert struct {
	Course       Course
	Date         WatchDate
	Availability Availability
	DetectedAt   time.Time
}

// Key identifies the (course, date) pair of the alert.
func (a Alert) Key() string {
	return a.Course.Seq + "@" + a.Date.Date
}

// Message is the one-line notification text.
func (a Alert) Message() string {
	return fmt.Sprintf("%s %s: reservation open (%d/%d)",
		a.Course.Name, a.Date.Label, a.Availability.ReserveCnt, a.Availability.LimitCnt)
}

// Update is what a sweep publishes to observers. On failure State holds the
// previous state (nil before the first success), Alerts is empty and Err is set.
type Update struct {
	State      *MonitorState
	Alerts     []Alert
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}
