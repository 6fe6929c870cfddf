package ui

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Title      lipgloss.Style
	Date       lipgloss.Style
	Cursor     lipgloss.Style
	CursorLine lipgloss.Style
	Border     lipgloss.Style
	Hint       lipgloss.Style
	Streak     lipgloss.Style
	Tip        lipgloss.Style
}

var DefaultTheme = Theme{
	Title:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#CBA6F7")),
	Date:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89B4FA")),
	Cursor:     lipgloss.NewStyle().Foreground(lipgloss.Color("#F5C2E7")),
	CursorLine: lipgloss.NewStyle().Background(lipgloss.Color("#313244")),
	Border:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#6C7086")).Padding(0, 1),
	Hint:       lipgloss.NewStyle().Faint(true),
	Streak:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F9E2AF")),
	Tip:        lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#94E2D5")),
}

// MonochromeTheme keeps layout but drops every color, for --no-color.
var MonochromeTheme = Theme{
	Title:      lipgloss.NewStyle().Bold(true),
	Date:       lipgloss.NewStyle().Bold(true),
	Cursor:     lipgloss.NewStyle(),
	CursorLine: lipgloss.NewStyle(),
	Border:     lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1),
	Hint:       lipgloss.NewStyle(),
	Streak:     lipgloss.NewStyle().Bold(true),
	Tip:        lipgloss.NewStyle(),
}

// ThemeFor picks the theme for the --no-color setting.
func ThemeFor(color bool) Theme {
	if color {
		return DefaultTheme
	}
	return MonochromeTheme
}
