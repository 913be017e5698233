package tui

import "github.com/charmbracelet/lipgloss"

// Watcher palette.
var (
	colorGreen  = lipgloss.Color("#10b981")
	colorYellow = lipgloss.Color("#f59e0b")
	colorRed    = lipgloss.Color("#ef4444")
	colorGray   = lipgloss.Color("#6b7280")
	colorBlue   = lipgloss.Color("#3b82f6")
	colorWhite  = lipgloss.Color("#f8fafc")
	colorDark   = lipgloss.Color("#1e293b")
)

// StyleHeader is the full-width dark header bar.
var StyleHeader = lipgloss.NewStyle().
	Background(colorDark).
	Foreground(colorWhite).
	Padding(0, 1)

// StyleDateTitle is the section title above each date's cards.
var StyleDateTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorWhite).
	MarginTop(1)

// Card styles. Open slots get a green border.
var (
	StyleCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray).
			Padding(0, 1)

	StyleCardOpen = StyleCard.
			BorderForeground(colorGreen)
)

// Badge styles.
var (
	StyleBadgeOpen = lipgloss.NewStyle().Bold(true).Foreground(colorDark).Background(colorGreen).Padding(0, 1)
	StyleBadgeFull = lipgloss.NewStyle().Bold(true).Foreground(colorWhite).Background(colorRed).Padding(0, 1)
)

// Banner styles.
var (
	StyleErrorBanner = lipgloss.NewStyle().
				Foreground(colorWhite).
				Background(colorRed).
				Bold(true).
				Padding(0, 1)

	StyleAlertBanner = lipgloss.NewStyle().
				Foreground(colorDark).
				Background(colorGreen).
				Bold(true).
				Padding(0, 1)
)

// Utility styles.
var (
	StyleError = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	StyleDim   = lipgloss.NewStyle().Foreground(colorGray)
)

// Named color styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(colorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(colorYellow)
	StyleBlue   = lipgloss.NewStyle().Foreground(colorBlue)
	StyleRed    = lipgloss.NewStyle().Foreground(colorRed)
)
