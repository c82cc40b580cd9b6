package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// SearchDebounce is how long typing must pause before the search term is applied.
const SearchDebounce = 220 * time.Millisecond

// searchDebounceMsg fires after the debounce delay. Only the message whose
// seq matches the model's latest keystroke is applied.
type searchDebounceMsg struct {
	seq   int
	query string
}

func debounceSearch(seq int, query string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return searchDebounceMsg{seq: seq, query: query}
	})
}
