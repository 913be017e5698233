package server

import (
	"time"

	"github.com/dm/halla-watch/internal/model"
)

type statePayload struct {
	CheckedAt *time.Time     `json:"checked_at"`
	Error     string         `json:"error,omitempty"`
	Dates     []datePayload  `json:"dates"`
	Alerts    []alertPayload `json:"alerts,omitempty"`
}

type datePayload struct {
	Date    string               `json:"date"`
	Label   string               `json:"label"`
	Courses []model.Availability `json:"courses"`
}

type alertPayload struct {
	Seq     string `json:"seq"`
	Name    string `json:"name"`
	Date    string `json:"date"`
	Label   string `json:"label"`
	Message string `json:"message"`
}

// buildPayload lays the state out in configuration order. Cells missing
// from the state (nothing fetched yet) are omitted.
func buildPayload(courses []model.Course, dates []model.WatchDate, upd model.Update) statePayload {
	p := statePayload{Dates: make([]datePayload, 0, len(dates))}
	if upd.Err != nil {
		p.Error = upd.Err.Error()
	}
	if upd.State != nil {
		at := upd.State.CheckedAt
		p.CheckedAt = &at
	}
	for _, d := range dates {
		dp := datePayload{Date: d.Date, Label: d.Label, Courses: []model.Availability{}}
		for _, c := range courses {
			if a, ok := upd.State.Cell(d.Date, c.Seq); ok {
				dp.Courses = append(dp.Courses, a)
			}
		}
		p.Dates = append(p.Dates, dp)
	}
	for _, a := range upd.Alerts {
		p.Alerts = append(p.Alerts, alertPayload{
			Seq:     a.Course.Seq,
			Name:    a.Course.Name,
			Date:    a.Date.Date,
			Label:   a.Date.Label,
			Message: a.Message(),
		})
	}
	return p
}
