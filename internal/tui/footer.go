package tui

import "strings"

// renderFooter renders the booking link and key binding help at full width,
// each on its own line. When app.showHelp is true, shows all key bindings;
// otherwise a brief hint.
func renderFooter(app *App) string {
	width := app.width
	if width <= 0 {
		width = 80
	}
	help := "? for help"
	if app.showHelp {
		help = helpText
	}
	var lines []string
	if app.reserveURL != "" {
		lines = append(lines, truncateRunes("Book: "+app.reserveURL, width))
	}
	lines = append(lines, help)
	return StyleDim.Width(width).Render(strings.Join(lines, "\n"))
}
