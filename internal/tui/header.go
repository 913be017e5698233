package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dm/halla-watch/internal/client"
	"github.com/dm/halla-watch/internal/format"
)

const appTitle = "Hallasan Reservation Watch"

// renderHeader renders the top header bar.
//
// Layout:
//   left:   title
//   center: spinner while sweeping, else "● N OPEN" / "● ALL FULL" / "● ERROR"
//   right:  "Last: HH:MM:SS  Poll: Ns"
func renderHeader(app *App) string {
	width := app.width
	if width <= 0 {
		width = 80
	}

	left := appTitle

	var center string
	switch {
	case app.fetching:
		center = app.spinner.View() + " checking..."
	case app.lastError != nil:
		center = StyleError.Render("● ERROR")
	case app.state == nil:
		center = StyleDim.Render("● WAITING")
	default:
		if n := app.state.AvailableCount(); n > 0 {
			center = StyleGreen.Bold(true).Render(fmt.Sprintf("● %d OPEN", n))
		} else {
			center = StyleDim.Render("● ALL FULL")
		}
	}

	right := StyleDim.Render(fmt.Sprintf("Last: %s  Poll: %s",
		format.FormatClock(app.lastChecked), format.FormatInterval(app.monitor.Interval())))

	// StyleHeader has Padding(0, 1) so inner content width = total width - 2.
	innerWidth := width - 2
	spacing := innerWidth - lipgloss.Width(left) - lipgloss.Width(center) - lipgloss.Width(right)
	if spacing < 0 {
		spacing = 0
	}
	leftSpacing := spacing / 2
	rightSpacing := spacing - leftSpacing

	row := left +
		strings.Repeat(" ", leftSpacing) +
		center +
		strings.Repeat(" ", rightSpacing) +
		right

	return StyleHeader.Width(width).Render(row)
}

// renderCountdown renders a bar filling up towards the next scheduled sweep.
func renderCountdown(app *App) string {
	width := app.width
	if width <= 0 {
		width = 80
	}
	if app.fetching || app.nextSweepAt.IsZero() {
		return renderMiniBar(100, width)
	}
	interval := app.monitor.Interval()
	remaining := app.nextSweepAt.Sub(app.now())
	if remaining < 0 {
		remaining = 0
	}
	elapsed := interval - remaining
	return renderMiniBar(float64(elapsed)/float64(interval)*100, width)
}

// renderError renders the error banner of the last failed sweep.
func renderError(app *App) string {
	if app.lastError == nil {
		return ""
	}
	msg := "Could not check reservations: " + describeError(app.lastError)
	if app.state != nil {
		msg += "  (showing data from " + formatAge(app.now(), app.lastChecked) + ")"
	}
	return StyleErrorBanner.Width(contentWidth(app)).Render(msg)
}

// describeError maps sweep errors to a short, human-readable message.
func describeError(err error) string {
	if err == nil {
		return ""
	}
	var fe *client.FetchError
	var pe *client.ParseError
	lower := strings.ToLower(err.Error())
	switch {
	case errors.As(err, &pe):
		if pe.Field != "" {
			return "Unexpected response (" + pe.Field + ")"
		}
		return "Unexpected response"
	case errors.As(err, &fe) && fe.StatusCode != 0:
		return fmt.Sprintf("Reservation site returned HTTP %d", fe.StatusCode)
	case strings.Contains(lower, "connection refused"):
		return "Connection refused"
	case strings.Contains(lower, "no such host"):
		return "Host not found"
	case strings.Contains(lower, "deadline exceeded") || strings.Contains(lower, "timeout"):
		return "Timeout"
	}
	return truncateRunes(err.Error(), 60)
}

// formatAge formats how long ago t was, e.g. "12s ago".
func formatAge(now, t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := now.Sub(t)
	if d < time.Second {
		return "just now"
	}
	return format.FormatInterval(d.Truncate(time.Second)) + " ago"
}
