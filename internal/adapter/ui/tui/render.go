package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tejashwikalptaru/gopraise/internal/domain"
)

const (
	defaultWidth  = 80
	defaultHeight = 24

	// rows taken by everything but the list
	chromeHeight = 9
)

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderQuery())
	b.WriteString("\n")
	if m.searching {
		b.WriteString(SearchBarStyle.Render(m.search.View()))
		b.WriteString("\n")
	}

	switch {
	case m.timerMenu:
		b.WriteString(m.renderTimerMenu())
	case m.showHistory:
		b.WriteString(m.renderHistory())
	default:
		b.WriteString(m.renderList())
	}
	b.WriteString("\n")

	b.WriteString(m.renderStatusBar())
	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(NoticeStyle.Render(m.notice))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderHeader() string {
	title := "Praise"
	if m.directory != "" {
		title += " · " + strings.TrimSuffix(m.directory, "/")
	}
	return TitleStyle.Render(truncate(title, m.contentWidth()))
}

func (m *Model) renderQuery() string {
	order := "A→Z"
	if m.query.Reversed {
		order = "Z→A"
	}
	parts := []string{
		"Filter: " + m.query.Filter.Label(),
		"Order: " + order,
		"Mode: " + m.mode.String(),
	}
	if m.query.Search != "" {
		parts = append(parts, fmt.Sprintf("Search: %q", m.query.Search))
	}
	if m.loadState == domain.LoadReady {
		parts = append(parts, fmt.Sprintf("%d/%d", len(m.items), m.total))
	}
	return QueryStyle.Render(truncate(strings.Join(parts, "  "), m.contentWidth()))
}

func (m *Model) renderList() string {
	switch m.loadState {
	case domain.LoadLoading:
		return LoadingStyle.Render("Loading " + m.directory + " …")
	case domain.LoadFailed:
		return ErrorStyle.Render("Failed to load the list. Press r to retry.")
	}
	if len(m.items) == 0 {
		if m.total > 0 {
			return EmptyStyle.Render("No items match the current filter.")
		}
		return EmptyStyle.Render("This directory is empty.")
	}

	rows := m.listHeight()
	end := min(m.offset+rows, len(m.items))
	width := m.contentWidth() - 8

	lines := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		marker := "  "
		if i == m.current {
			marker = "▶ "
		}
		line := fmt.Sprintf("%s%3d  %s", marker, i+1, truncate(m.items[i].Name, width))

		switch {
		case i == m.selected:
			lines = append(lines, SelectedRowStyle.Render(line))
		case i == m.current:
			lines = append(lines, CurrentRowStyle.Render(line))
		default:
			lines = append(lines, RowStyle.Render(line))
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderHistory() string {
	if len(m.history) == 0 {
		return PanelStyle.Render("Nothing played yet.")
	}
	width := m.contentWidth() - 10
	lines := make([]string, 0, len(m.history)+1)
	lines = append(lines, TitleStyle.UnsetMarginLeft().Render("Recently played"))
	for i, item := range m.history {
		line := pad(truncate(item.DisplayName(), width), width)
		if i == m.historySelected {
			lines = append(lines, StatusPlayingStyle.Render("› "+line))
			continue
		}
		lines = append(lines, "  "+line)
	}
	return PanelStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderTimerMenu() string {
	opts := make([]string, 0, len(domain.SleepTimerOptions))
	for i, minutes := range domain.SleepTimerOptions {
		label := fmt.Sprintf(" %d min ", minutes)
		switch {
		case i == m.timerChoice:
			opts = append(opts, SelectedRowStyle.UnsetPaddingLeft().Reverse(true).Render(label))
		case m.timer.Active && m.timer.Minutes == minutes:
			opts = append(opts, StatusPlayingStyle.Render(label))
		default:
			opts = append(opts, label)
		}
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		"Stop playback after:",
		lipgloss.JoinHorizontal(lipgloss.Top, opts...),
		StatusStoppedStyle.Render("←/→ choose · enter start · x cancel timer · esc close"),
	)
	return PanelStyle.Render(body)
}

func (m *Model) renderStatusBar() string {
	var icon, state string
	style := StatusStoppedStyle
	switch m.status {
	case domain.StatusPlaying:
		icon, state = "▶", "Playing"
		style = StatusPlayingStyle
	case domain.StatusPaused:
		icon, state = "⏸", "Paused"
	case domain.StatusLoaded:
		icon, state = "■", "Stopped"
	default:
		icon, state = "■", "Idle"
	}

	line := style.Render(icon + " " + state)
	if !m.nowPlaying.IsZero() {
		line += "  " + truncate(m.nowPlaying.DisplayName(), m.contentWidth()/2)
	}
	if m.hasMetadata {
		if info := formatMetadata(m.metadata); info != "" {
			line += "  " + TrackInfoStyle.Render(info)
		}
	}
	if m.timer.Status != "" {
		line += "  " + StatusStoppedStyle.Render(m.timerLabel())
	}
	return StatusBarStyle.Render(line)
}

// timerLabel shows the countdown while a timer is pending and the last status otherwise.
func (m *Model) timerLabel() string {
	if !m.timer.Active {
		return m.timer.Status
	}
	left := m.timer.Remaining(m.now()).Round(time.Second)
	return fmt.Sprintf("⏾ %s (%s left)", m.timer.Status, left)
}

func formatMetadata(md domain.TrackMetadata) string {
	var parts []string
	for _, s := range []string{md.Artist, md.Album} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if md.Year > 0 {
		parts = append(parts, fmt.Sprint(md.Year))
	}
	info := strings.Join(parts, " · ")
	if md.Title != "" {
		if info == "" {
			return md.Title
		}
		return md.Title + " - " + info
	}
	return info
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

func (m *Model) listHeight() int {
	h := m.height
	if h <= 0 {
		h = defaultHeight
	}
	return max(h-chromeHeight, 3)
}
