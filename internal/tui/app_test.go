package tui

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm/halla-watch/internal/client"
	"github.com/dm/halla-watch/internal/engine"
	"github.com/dm/halla-watch/internal/model"
	"github.com/dm/halla-watch/internal/notifier"
)

var (
	testCourses = []model.Course{{Seq: "244", Name: "Gwaneumsa"}, {Seq: "242", Name: "Seongpanak"}}
	testDates   = []model.WatchDate{{Date: "2024.12.28", Label: "Dec 28"}, {Date: "2024.12.29", Label: "Dec 29"}}
)

// stubClient answers every query with reserve/limit, or err when set.
type stubClient struct {
	reserve, limit int
	err            error
	calls          atomic.Int32
}

func (s *stubClient) CheckAvailability(_ context.Context, seq, _, _ string) (*model.Availability, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	a := model.NewAvailability(seq, s.reserve, s.limit)
	return &a, nil
}

func (s *stubClient) BaseURL() string { return "http://stub" }

var _ client.ReservationClient = (*stubClient)(nil)

func newTestApp(c *stubClient) *App {
	m := engine.New(c, engine.Options{Courses: testCourses, Dates: testDates, Interval: 10 * time.Second})
	return NewApp(context.Background(), m, nil, "https://visithalla.jeju.go.kr/")
}

// makeFixtureUpdate builds a successful Update with every cell at reserve/limit.
func makeFixtureUpdate(reserve, limit int) model.Update {
	now := time.Now()
	state := model.NewMonitorState(testDates, now)
	var alerts []model.Alert
	for _, d := range testDates {
		for _, c := range testCourses {
			a := model.NewAvailability(c.Seq, reserve, limit)
			a.CourseName = c.Name
			state.Cells[d.Date][c.Seq] = a
			if a.Available {
				alerts = append(alerts, model.Alert{Course: c, Date: d, Availability: a, DetectedAt: now})
			}
		}
	}
	return model.Update{State: state, Alerts: alerts, StartedAt: now, FinishedAt: now}
}

func TestNewApp_StartsFetching(t *testing.T) {
	app := newTestApp(&stubClient{limit: 10})
	assert.True(t, app.fetching, "Init always issues a sweep")
	assert.Nil(t, app.state)
	require.NotNil(t, app.Init())
}

func TestSweepCmd_Success(t *testing.T) {
	c := &stubClient{reserve: 5, limit: 10}
	app := newTestApp(c)

	msg := sweepCmd(app.ctx, app.monitor)()
	sm, ok := msg.(SweepMsg)
	require.True(t, ok, "got %T", msg)
	assert.Equal(t, 4, sm.Update.State.Len())
	assert.Len(t, sm.Update.Alerts, 4)
	assert.Equal(t, int32(4), c.calls.Load())
}

func TestSweepCmd_Error(t *testing.T) {
	app := newTestApp(&stubClient{err: &client.FetchError{StatusCode: 503, Err: errors.New("unexpected status 503")}})

	msg := sweepCmd(app.ctx, app.monitor)()
	em, ok := msg.(SweepErrorMsg)
	require.True(t, ok, "got %T", msg)
	assert.True(t, client.IsFetchError(em.Err))
}

func TestSweepCmd_AfterShutdownIsSkipped(t *testing.T) {
	c := &stubClient{limit: 10}
	app := newTestApp(c)
	app.Shutdown()

	msg := sweepCmd(app.ctx, app.monitor)()
	assert.IsType(t, sweepSkippedMsg{}, msg)
	assert.Equal(t, int32(0), c.calls.Load())
}

func TestApp_SweepMsgUpdatesState(t *testing.T) {
	app := newTestApp(&stubClient{})
	upd := makeFixtureUpdate(5, 10)

	newModel, cmd := app.Update(SweepMsg{Update: upd})
	updated := newModel.(*App)

	assert.Same(t, upd.State, updated.state)
	assert.False(t, updated.fetching)
	assert.Nil(t, updated.lastError)
	assert.Equal(t, upd.State.CheckedAt, updated.lastChecked)
	assert.Len(t, updated.alerts, 4)
	assert.Equal(t, 1, updated.alertSeq)
	assert.False(t, updated.nextSweepAt.IsZero())
	require.NotNil(t, cmd)
}

func TestApp_SweepMsgWithoutAlertsKeepsBannerClear(t *testing.T) {
	app := newTestApp(&stubClient{})
	newModel, _ := app.Update(SweepMsg{Update: makeFixtureUpdate(10, 10)})
	updated := newModel.(*App)

	assert.Empty(t, updated.alerts)
	assert.Equal(t, 0, updated.alertSeq)
}

func TestApp_SweepErrorKeepsPreviousState(t *testing.T) {
	app := newTestApp(&stubClient{})
	upd := makeFixtureUpdate(10, 10)
	newModel, _ := app.Update(SweepMsg{Update: upd})
	app = newModel.(*App)
	checked := app.lastChecked

	app.fetching = true
	newModel, cmd := app.Update(SweepErrorMsg{Err: errors.New("connection refused")})
	updated := newModel.(*App)

	assert.Same(t, upd.State, updated.state)
	assert.Equal(t, checked, updated.lastChecked)
	assert.EqualError(t, updated.lastError, "connection refused")
	assert.False(t, updated.fetching)
	require.NotNil(t, cmd, "the next tick must still be scheduled")
}

func TestApp_SuccessClearsError(t *testing.T) {
	app := newTestApp(&stubClient{})
	newModel, _ := app.Update(SweepErrorMsg{Err: errors.New("boom")})
	app = newModel.(*App)
	require.Error(t, app.lastError)

	newModel, _ = app.Update(SweepMsg{Update: makeFixtureUpdate(10, 10)})
	assert.Nil(t, newModel.(*App).lastError)
}

func TestApp_TickWhileFetchingIsNoop(t *testing.T) {
	app := newTestApp(&stubClient{})
	require.True(t, app.fetching)

	_, cmd := app.Update(TickMsg{At: time.Now(), seq: app.tickSeq})
	assert.Nil(t, cmd)
	assert.True(t, app.fetching)
}

func TestApp_TickStartsSweep(t *testing.T) {
	app := newTestApp(&stubClient{limit: 10})
	app.fetching = false

	_, cmd := app.Update(TickMsg{At: time.Now(), seq: app.tickSeq})
	require.NotNil(t, cmd)
	assert.True(t, app.fetching)
}

func TestApp_RefreshKey(t *testing.T) {
	app := newTestApp(&stubClient{limit: 10})
	app.fetching = false

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	require.NotNil(t, cmd)
	assert.True(t, app.fetching)

	// A second press while in flight does nothing.
	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	assert.Nil(t, cmd)
}

func TestApp_RefreshKeepsSingleTickChain(t *testing.T) {
	c := &stubClient{limit: 10}
	app := newTestApp(c)

	// The launch sweep completes and arms the first tick.
	app.Update(sweepCmd(app.ctx, app.monitor)())
	pending := TickMsg{At: time.Now(), seq: app.tickSeq}

	// A manual refresh completes before that tick fires and arms its own.
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	require.NotNil(t, cmd)
	app.Update(cmd())
	require.Equal(t, int32(8), c.calls.Load())
	require.False(t, app.fetching)

	_, cmd = app.Update(pending)
	assert.Nil(t, cmd, "tick superseded by the refresh must not sweep")
	assert.False(t, app.fetching)

	_, cmd = app.Update(TickMsg{At: time.Now(), seq: app.tickSeq})
	require.NotNil(t, cmd)
	app.Update(cmd())
	assert.Equal(t, int32(12), c.calls.Load())
}

func TestApp_QuitCancelsContext(t *testing.T) {
	app := newTestApp(&stubClient{limit: 10})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Error(t, app.ctx.Err())

	// Ticks that fire after teardown start nothing.
	app.fetching = false
	_, cmd = app.Update(TickMsg{At: time.Now(), seq: app.tickSeq})
	assert.Nil(t, cmd)
	assert.False(t, app.fetching)
}

func TestApp_SkippedAfterShutdownDoesNotRearm(t *testing.T) {
	app := newTestApp(&stubClient{})
	app.Shutdown()

	_, cmd := app.Update(sweepSkippedMsg{})
	assert.Nil(t, cmd)
	assert.False(t, app.fetching)
}

func TestApp_ClearAlertMsg(t *testing.T) {
	app := newTestApp(&stubClient{})
	app.Update(SweepMsg{Update: makeFixtureUpdate(5, 10)})
	app.Update(SweepMsg{Update: makeFixtureUpdate(5, 10)})
	require.Equal(t, 2, app.alertSeq)

	// A stale clear from the first sweep must not hide the second banner.
	app.Update(clearAlertMsg{seq: 1})
	assert.NotEmpty(t, app.alerts)

	app.Update(clearAlertMsg{seq: 2})
	assert.Empty(t, app.alerts)
}

func TestApp_DismissKey(t *testing.T) {
	app := newTestApp(&stubClient{})
	app.Update(SweepMsg{Update: makeFixtureUpdate(5, 10)})
	require.NotEmpty(t, app.alerts)

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, app.alerts)
}

type countingNotifier struct{ n atomic.Int32 }

func (c *countingNotifier) Notify(context.Context, model.Alert) error {
	c.n.Add(1)
	return nil
}

func TestApp_DispatchesAlerts(t *testing.T) {
	cn := &countingNotifier{}
	d := notifier.NewDispatcher(nil, cn)
	m := engine.New(&stubClient{}, engine.Options{Courses: testCourses, Dates: testDates})
	app := NewApp(context.Background(), m, d, "")

	app.Update(SweepMsg{Update: makeFixtureUpdate(5, 10)})
	d.Wait()
	assert.Equal(t, int32(4), cn.n.Load())
}

func TestApp_HelpToggle(t *testing.T) {
	app := newTestApp(&stubClient{})
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	assert.True(t, app.showHelp)
	assert.Contains(t, app.View(), helpText)
}

func TestRenderFooter_LinkAndHelpOnSeparateLines(t *testing.T) {
	app := newTestApp(&stubClient{})
	app.showHelp = true

	lines := strings.Split(renderFooter(app), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Book: https://visithalla.jeju.go.kr/")
	assert.Contains(t, lines[1], helpText)
	for _, l := range lines {
		assert.LessOrEqual(t, lipgloss.Width(l), 80)
	}
}

func TestRenderFooter_FallsBackToBaseURL(t *testing.T) {
	m := engine.New(&stubClient{}, engine.Options{Courses: testCourses, Dates: testDates})
	app := NewApp(context.Background(), m, nil, "")
	assert.Contains(t, renderFooter(app), "Book: http://stub")
}

func TestApp_WindowSize(t *testing.T) {
	app := newTestApp(&stubClient{})
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, app.width)
	assert.Equal(t, 40, app.height)
}

func TestApp_ViewShowsGrid(t *testing.T) {
	app := newTestApp(&stubClient{})
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	app.Update(SweepMsg{Update: makeFixtureUpdate(5, 10)})

	view := app.View()
	assert.Contains(t, view, appTitle)
	assert.Contains(t, view, "Dec 28")
	assert.Contains(t, view, "Dec 29")
	assert.Contains(t, view, "Gwaneumsa")
	assert.Contains(t, view, "Seongpanak")
	assert.Contains(t, view, "OPEN")
	assert.Contains(t, view, "Reservation open!")
	assert.Contains(t, view, "visithalla.jeju.go.kr")
	assert.NotContains(t, view, "FULL")
}

func TestApp_ViewBeforeFirstSweep(t *testing.T) {
	app := newTestApp(&stubClient{})
	view := app.View()
	assert.Contains(t, view, "Waiting for the first check")
	assert.True(t, strings.Contains(view, "--:--:--"))
}
