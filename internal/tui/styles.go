package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	colorPrimary = lipgloss.Color("#7C3AED")
	colorSuccess = lipgloss.Color("#22C55E")
	colorWarning = lipgloss.Color("#F59E0B")
	colorDanger  = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")

	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorPrimary).
			Padding(0, 1)

	styleTableHeader = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(colorPrimary).
				Padding(0, 1)

	styleHelp = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	styleLive = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	stylePaused = lipgloss.NewStyle().
			Foreground(colorWarning).
			Bold(true)

	styleOffline = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)

	styleRankTop = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	styleScoreBar = lipgloss.NewStyle().
			Foreground(colorPrimary)
)

func styleMuted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorMuted)
}
