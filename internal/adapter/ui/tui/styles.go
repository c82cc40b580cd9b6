package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Color palette
var (
	TitleColor   = lipgloss.Color("#C8553D") // Warm red for title
	PrimaryColor = lipgloss.Color("#D8A24D") // Golden accent
	PlayingColor = lipgloss.Color("#1a9096") // Teal for playing
	ErrorColor   = lipgloss.Color("#FF3333") // Red for errors
	SubtleColor  = lipgloss.Color("#666666") // Gray for secondary text
	SearchColor  = lipgloss.Color("#E6DB74") // Yellow for the search bar
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(TitleColor).
			MarginLeft(2)

	QueryStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			MarginLeft(2)

	RowStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	SelectedRowStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Foreground(PrimaryColor).
				Bold(true)

	CurrentRowStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(PlayingColor)

	StatusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			MarginTop(1)

	StatusPlayingStyle = lipgloss.NewStyle().
				Foreground(PlayingColor).
				Bold(true)

	StatusStoppedStyle = lipgloss.NewStyle().
				Foreground(SubtleColor)

	TrackInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCCCCC")).
			Italic(true)

	LoadingStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			Padding(1, 4)

	EmptyStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Padding(1, 4)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Padding(1, 4)

	NoticeStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			MarginLeft(2)

	SearchBarStyle = lipgloss.NewStyle().
			Foreground(SearchColor).
			MarginLeft(2)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(PrimaryColor).
			Padding(0, 1).
			MarginLeft(2)
)

// truncate shortens s to at most width terminal cells. Item names are
// mostly CJK, which take two cells per rune.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// pad right-fills s with spaces to width cells.
func pad(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
