package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/dm/halla-watch/internal/client"
	"github.com/dm/halla-watch/internal/model"
)

// DefaultInterval is the time between the end of one sweep and the start of the next.
const DefaultInterval = 10 * time.Second

// Options configures a Monitor.
type Options struct {
	Courses  []model.Course
	Dates    []model.WatchDate
	TimeSlot string
	Interval time.Duration
	// SweepTimeout bounds a whole sweep. Zero derives it from Interval.
	SweepTimeout time.Duration
	// AlertCooldown suppresses repeat alerts for the same (course, date)
	// within the window. Zero re-alerts on every sweep.
	AlertCooldown time.Duration
}

// Monitor owns the MonitorState and runs sweeps one at a time.
// The state pointer is only ever replaced, never mutated, so readers need
// no lock.
type Monitor struct {
	client client.ReservationClient
	opts   Options

	busy      atomic.Bool
	state     atomic.Pointer[model.MonitorState]
	lastErr   atomic.Pointer[errBox]
	lastAlert map[string]time.Time // guarded by busy
}

type errBox struct{ err error }

// New creates a Monitor for the given client and options.
func New(c client.ReservationClient, opts Options) *Monitor {
	if opts.TimeSlot == "" {
		opts.TimeSlot = model.DefaultTimeSlot
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.SweepTimeout <= 0 {
		opts.SweepTimeout = sweepTimeout(opts.Interval)
	}
	return &Monitor{
		client:    c,
		opts:      opts,
		lastAlert: make(map[string]time.Time),
	}
}

// sweepTimeout leaves half a second of the interval free, minimum 500ms.
func sweepTimeout(interval time.Duration) time.Duration {
	timeout := interval - 500*time.Millisecond
	if timeout < 500*time.Millisecond {
		timeout = 500 * time.Millisecond
	}
	return timeout
}

// Interval returns the configured polling interval.
func (m *Monitor) Interval() time.Duration { return m.opts.Interval }

// Courses returns the configured courses.
func (m *Monitor) Courses() []model.Course { return m.opts.Courses }

// Dates returns the configured watch dates.
func (m *Monitor) Dates() []model.WatchDate { return m.opts.Dates }

// BaseURL returns the reservation site the monitor polls.
func (m *Monitor) BaseURL() string { return m.client.BaseURL() }

// State returns the last complete state, or nil before the first successful sweep.
func (m *Monitor) State() *model.MonitorState { return m.state.Load() }

// LastError returns the error of the most recent sweep, nil if it succeeded.
func (m *Monitor) LastError() error {
	if b := m.lastErr.Load(); b != nil {
		return b.err
	}
	return nil
}

// TrySweep runs one sweep unless one is already in flight or ctx is done,
// in which case it returns false and has no effect. On failure the
// previous state is kept and Update.Err is set.
func (m *Monitor) TrySweep(ctx context.Context) (model.Update, bool) {
	if ctx.Err() != nil {
		return model.Update{}, false
	}
	if !m.busy.CompareAndSwap(false, true) {
		return model.Update{}, false
	}
	defer m.busy.Store(false)

	started := time.Now()
	sctx, cancel := context.WithTimeout(ctx, m.opts.SweepTimeout)
	defer cancel()

	state, alerts, err := Sweep(sctx, m.client, m.opts.Courses, m.opts.Dates, m.opts.TimeSlot)
	if ctx.Err() != nil {
		// Torn down mid-sweep: drop the result, whatever it was.
		return model.Update{}, false
	}
	upd := model.Update{StartedAt: started, FinishedAt: time.Now()}
	if err != nil {
		m.lastErr.Store(&errBox{err: err})
		upd.State = m.state.Load()
		upd.Err = err
		return upd, true
	}

	m.state.Store(state)
	m.lastErr.Store(nil)
	upd.State = state
	upd.Alerts = m.filterAlerts(alerts, upd.FinishedAt)
	return upd, true
}

func (m *Monitor) filterAlerts(alerts []model.Alert, now time.Time) []model.Alert {
	if m.opts.AlertCooldown <= 0 {
		return alerts
	}
	out := alerts[:0:0]
	for _, a := range alerts {
		if last, ok := m.lastAlert[a.Key()]; ok && now.Sub(last) < m.opts.AlertCooldown {
			continue
		}
		m.lastAlert[a.Key()] = now
		out = append(out, a)
	}
	return out
}

// Run sweeps once immediately and then again Interval after each sweep
// completes, passing every Update to observe. It returns when ctx is
// cancelled; no sweep starts after that.
func (m *Monitor) Run(ctx context.Context, observe func(model.Update)) {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if upd, ok := m.TrySweep(ctx); ok && observe != nil {
			observe(upd)
		}
		timer.Reset(m.opts.Interval)
	}
}
