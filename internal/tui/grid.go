package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dm/halla-watch/internal/format"
	"github.com/dm/halla-watch/internal/model"
)

const (
	minCardWidth = 24
	maxCardWidth = 40
)

// contentWidth returns the usable terminal width.
func contentWidth(app *App) int {
	if app.width <= 0 {
		return 80
	}
	return app.width
}

// renderGrid renders one section per watch date with one card per course.
// Cards wrap onto further rows when the terminal is too narrow.
func renderGrid(app *App) string {
	if app.state == nil {
		if app.lastError != nil {
			return StyleDim.Render("No data yet.")
		}
		return StyleDim.Render("Waiting for the first check...")
	}

	width := contentWidth(app)
	courses := app.monitor.Courses()
	perRow := width / (minCardWidth + 2)
	if perRow < 1 {
		perRow = 1
	}
	if perRow > len(courses) {
		perRow = len(courses)
	}
	cardWidth := width/max(perRow, 1) - 2
	if cardWidth > maxCardWidth {
		cardWidth = maxCardWidth
	}
	if cardWidth < minCardWidth {
		cardWidth = minCardWidth
	}

	var sections []string
	for _, d := range app.monitor.Dates() {
		title := StyleDateTitle.Render(d.Label)
		if d.Label != d.Date {
			title += StyleDim.Render("  " + d.Date)
		}

		var rows, row []string
		for _, c := range courses {
			a, ok := app.state.Cell(d.Date, c.Seq)
			if !ok {
				continue
			}
			row = append(row, renderCard(c, a, cardWidth))
			if len(row) == perRow {
				rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
				row = nil
			}
		}
		if len(row) > 0 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
		}
		sections = append(sections, lipgloss.JoinVertical(lipgloss.Left, append([]string{title}, rows...)...))
	}
	return strings.Join(sections, "\n")
}

// renderCard renders one course card: name and status badge, counters and
// an occupancy bar coloured by severity.
func renderCard(c model.Course, a model.Availability, width int) string {
	inner := width - 4 // border + padding
	if inner < 8 {
		inner = 8
	}

	badge := StyleBadgeFull.Render("FULL")
	style := StyleCard
	if a.Available {
		badge = StyleBadgeOpen.Render("OPEN")
		style = StyleCardOpen
	}
	name := truncateRunes(c.Name, inner-lipgloss.Width(badge)-1)
	gap := inner - lipgloss.Width(name) - lipgloss.Width(badge)
	if gap < 1 {
		gap = 1
	}
	titleRow := name + strings.Repeat(" ", gap) + badge

	sev := occupancySeverity(a)
	lines := []string{
		titleRow,
		labelValue("Booked", format.FormatRatio(a.ReserveCnt, a.LimitCnt), inner),
		labelValue("Remaining", fmt.Sprintf("%d", a.Remaining()), inner),
		labelValue("Occupancy", format.FormatPercent(a.Occupancy()*100), inner),
		severityToStyle(sev).Render(renderMiniBar(a.Occupancy()*100, inner)),
	}
	return style.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func labelValue(label, value string, width int) string {
	gap := width - lipgloss.Width(label) - lipgloss.Width(value)
	if gap < 1 {
		gap = 1
	}
	return StyleDim.Render(label) + strings.Repeat(" ", gap) + value
}

// renderAlerts renders the transient banner listing the open slots found
// by the latest sweep.
func renderAlerts(app *App) string {
	if len(app.alerts) == 0 {
		return ""
	}
	parts := make([]string, 0, len(app.alerts))
	for _, a := range app.alerts {
		parts = append(parts, a.Course.Name+" "+a.Date.Label)
	}
	msg := "Reservation open! " + strings.Join(parts, ", ")
	return StyleAlertBanner.Width(contentWidth(app)).Render(msg)
}

// renderMiniBar renders a progress bar using Unicode block characters.
// Fills proportionally using "█" (U+2588) for filled and "░" (U+2591) for empty cells.
func renderMiniBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(percent / 100.0 * float64(width))
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// truncateRunes shortens s to at most n display cells, adding "…" when cut.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= n {
		return s
	}
	var b strings.Builder
	w := 0
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if w+rw > n-1 {
			break
		}
		b.WriteRune(r)
		w += rw
	}
	return b.String() + "…"
}
