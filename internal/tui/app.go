package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dm/halla-watch/internal/engine"
	"github.com/dm/halla-watch/internal/model"
	"github.com/dm/halla-watch/internal/notifier"
)

// alertBannerDuration is how long the alert banner stays up after a sweep.
const alertBannerDuration = 5 * time.Second

// App is the root Bubble Tea model for the watcher.
type App struct {
	monitor    *engine.Monitor
	dispatcher *notifier.Dispatcher
	reserveURL string

	// ctx is cancelled on quit so no sweep starts after teardown.
	ctx    context.Context
	cancel context.CancelFunc

	// Poll state
	fetching    bool // true while a sweepCmd goroutine is in-flight
	state       *model.MonitorState
	lastError   error
	lastChecked time.Time
	nextSweepAt time.Time
	tickSeq     int

	// Alert banner
	alerts   []model.Alert
	alertSeq int

	// Layout
	width, height int

	// UI state
	showHelp bool
	spinner  spinner.Model
	now      func() time.Time
}

// NewApp creates an App driving m. Alerts are handed to d (may be nil);
// reserveURL is shown in the footer, falling back to the polled site.
func NewApp(parent context.Context, m *engine.Monitor, d *notifier.Dispatcher, reserveURL string) *App {
	ctx, cancel := context.WithCancel(parent)
	if reserveURL == "" {
		reserveURL = m.BaseURL()
	}
	return &App{
		monitor:    m,
		dispatcher: d,
		reserveURL: reserveURL,
		ctx:        ctx,
		cancel:     cancel,
		fetching:   true, // Init() always issues an immediate sweepCmd
		spinner:    spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(StyleBlue)),
		now:        time.Now,
	}
}

// Init implements tea.Model. Starts the first sweep immediately on launch.
func (app *App) Init() tea.Cmd {
	return tea.Batch(sweepCmd(app.ctx, app.monitor), app.spinner.Tick)
}

// Update implements tea.Model. It is the single state-mutation entry point.
func (app *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		app.width = msg.Width
		app.height = msg.Height

	case SweepMsg:
		app.fetching = false
		app.state = msg.Update.State
		app.lastError = nil
		if app.state != nil {
			app.lastChecked = app.state.CheckedAt
		}
		cmds := []tea.Cmd{app.scheduleNext()}
		if len(msg.Update.Alerts) > 0 {
			app.alerts = msg.Update.Alerts
			app.alertSeq++
			app.dispatcher.Dispatch(app.ctx, msg.Update.Alerts)
			cmds = append(cmds, clearAlertCmd(alertBannerDuration, app.alertSeq))
		}
		return app, tea.Batch(cmds...)

	case SweepErrorMsg:
		// The previous state stays on screen; the next tick is the retry.
		app.fetching = false
		app.lastError = msg.Err
		return app, app.scheduleNext()

	case sweepSkippedMsg:
		app.fetching = false
		if app.ctx.Err() != nil {
			return app, nil
		}
		return app, app.scheduleNext()

	case TickMsg:
		if msg.seq != app.tickSeq {
			return app, nil
		}
		return app, app.startSweep()

	case clearAlertMsg:
		if msg.seq == app.alertSeq {
			app.alerts = nil
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		app.spinner, cmd = app.spinner.Update(msg)
		return app, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			app.Shutdown()
			return app, tea.Quit
		case key.Matches(msg, keys.Refresh):
			return app, app.startSweep()
		case key.Matches(msg, keys.Dismiss):
			app.alerts = nil
		case key.Matches(msg, keys.Help):
			app.showHelp = !app.showHelp
		}
	}

	return app, nil
}

// Shutdown cancels the app context: pending ticks become no-ops and an
// in-flight sweep is abandoned.
func (app *App) Shutdown() {
	app.cancel()
}

// startSweep issues a sweep unless one is in flight or the app is shutting down.
func (app *App) startSweep() tea.Cmd {
	if app.fetching || app.ctx.Err() != nil {
		return nil
	}
	app.fetching = true
	return sweepCmd(app.ctx, app.monitor)
}

func (app *App) scheduleNext() tea.Cmd {
	d := app.monitor.Interval()
	app.nextSweepAt = app.now().Add(d)
	app.tickSeq++
	return tickCmd(d, app.tickSeq)
}

// View implements tea.Model. Renders the full TUI.
func (app *App) View() string {
	var parts []string

	parts = append(parts, renderHeader(app))
	parts = append(parts, renderCountdown(app))
	if e := renderError(app); e != "" {
		parts = append(parts, e)
	}
	if a := renderAlerts(app); a != "" {
		parts = append(parts, a)
	}
	parts = append(parts, renderGrid(app))
	parts = append(parts, renderFooter(app))

	return strings.Join(parts, "\n")
}

// tickCmd schedules the next sweep after duration d.
func tickCmd(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg{At: t, seq: seq}
	})
}

func clearAlertCmd(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearAlertMsg{seq: seq}
	})
}

// sweepCmd is a Bubble Tea command that runs one monitor sweep and returns
// a SweepMsg, SweepErrorMsg or sweepSkippedMsg.
func sweepCmd(ctx context.Context, m *engine.Monitor) tea.Cmd {
	return func() tea.Msg {
		upd, ok := m.TrySweep(ctx)
		if !ok {
			return sweepSkippedMsg{}
		}
		if upd.Err != nil {
			return SweepErrorMsg{Err: upd.Err}
		}
		return SweepMsg{Update: upd}
	}
}
