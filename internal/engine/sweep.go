package engine

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dm/halla-watch/internal/client"
	"github.com/dm/halla-watch/internal/model"
)

// Sweep checks every course × date combination concurrently. If any single
// check fails, Sweep returns the first error and no state or alerts; results
// that did arrive are discarded so a caller never observes a partial sweep.
func Sweep(ctx context.Context, c client.ReservationClient, courses []model.Course, dates []model.WatchDate, timeSlot string) (*model.MonitorState, []model.Alert, error) {
	queries := model.SlotQueries(courses, dates, timeSlot)
	results := make([]model.Availability, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		g.Go(func() error {
			a, err := c.CheckAvailability(gctx, q.Course.Seq, q.Date.Date, q.TimeSlot)
			if err != nil {
				return err
			}
			if a == nil {
				return fmt.Errorf("Sweep: nil result for course %s on %s", q.Course.Seq, q.Date.Date)
			}
			results[i] = *a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	now := time.Now()
	state := model.NewMonitorState(dates, now)
	var alerts []model.Alert
	for i, q := range queries {
		a := results[i]
		a.CourseSeq = q.Course.Seq
		a.CourseName = q.Course.Name
		state.Cells[q.Date.Date][q.Course.Seq] = a
		if a.Available {
			alerts = append(alerts, model.Alert{
				Course:       q.Course,
				Date:         q.Date,
				Availability: a,
				DetectedAt:   now,
			})
		}
	}
	return state, alerts, nil
}
