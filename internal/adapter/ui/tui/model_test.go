package tui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/gopraise/internal/domain"
)

// recordingCommands records every command the model issues.
type recordingCommands struct {
	calls      []string
	recentOK   bool
	searches   []string
	lastTimer  int
	playIndex  int
	recentKeys []string
}

func (r *recordingCommands) PlayIndex(index int) {
	r.playIndex = index
	r.calls = append(r.calls, fmt.Sprintf("play %d", index))
}

func (r *recordingCommands) PlayRecent(key string) bool {
	r.recentKeys = append(r.recentKeys, key)
	r.calls = append(r.calls, "recent")
	return r.recentOK
}

func (r *recordingCommands) TogglePlay()    { r.calls = append(r.calls, "toggle") }
func (r *recordingCommands) Stop()          { r.calls = append(r.calls, "stop") }
func (r *recordingCommands) CycleMode()     { r.calls = append(r.calls, "mode") }
func (r *recordingCommands) CycleFilter()   { r.calls = append(r.calls, "filter") }
func (r *recordingCommands) ToggleOrder()   { r.calls = append(r.calls, "order") }
func (r *recordingCommands) ResetQuery()    { r.calls = append(r.calls, "reset") }
func (r *recordingCommands) NextDirectory() { r.calls = append(r.calls, "next-dir") }
func (r *recordingCommands) Reload()        { r.calls = append(r.calls, "reload") }
func (r *recordingCommands) CancelTimer()   { r.calls = append(r.calls, "cancel-timer") }

func (r *recordingCommands) Search(query string) {
	r.searches = append(r.searches, query)
	r.calls = append(r.calls, "search")
}

func (r *recordingCommands) StartTimer(minutes int) {
	r.lastTimer = minutes
	r.calls = append(r.calls, "timer")
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func items(names ...string) []domain.Item {
	out := make([]domain.Item, len(names))
	for i, n := range names {
		out[i] = domain.NewItem("praise/", n)
	}
	return out
}

func newLoadedModel(cmds Commands, names ...string) *Model {
	m := NewModel(cmds)
	m.Update(visibleListMsg{items: items(names...), current: -1, state: domain.LoadReady, total: len(names)})
	return m
}

func TestModel_KeyBindings(t *testing.T) {
	cmds := &recordingCommands{}
	m := newLoadedModel(cmds, "a.mp3", "b.mp3", "c.mp3")

	m.Update(runes("j"))
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyDown}) // clamped at the last row
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m.Update(runes("s"))
	m.Update(runes("m"))
	m.Update(runes("f"))
	m.Update(runes("o"))
	m.Update(runes("c"))
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(runes("r"))
	m.Update(runes("x"))

	assert.Equal(t, []string{
		"play 2", "toggle", "stop", "mode", "filter", "order", "reset", "next-dir", "reload", "cancel-timer",
	}, cmds.calls)
}

func TestModel_QuitKeys(t *testing.T) {
	m := NewModel(&recordingCommands{})

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_PlayOnEmptyListDoesNothing(t *testing.T) {
	cmds := &recordingCommands{}
	m := NewModel(cmds)

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, cmds.calls)
}

func TestModel_SearchDebounceAppliesLatestOnly(t *testing.T) {
	cmds := &recordingCommands{}
	m := newLoadedModel(cmds, "a.mp3")

	m.Update(runes("/"))
	require.True(t, m.searching)

	m.Update(runes("主"))
	first := m.searchSeq
	m.Update(runes("祷"))
	second := m.searchSeq
	require.Greater(t, second, first)

	// The first tick is superseded by the second keystroke.
	m.Update(searchDebounceMsg{seq: first, query: "主"})
	assert.Empty(t, cmds.searches)

	m.Update(searchDebounceMsg{seq: second, query: "主祷"})
	assert.Equal(t, []string{"主祷"}, cmds.searches)

	// Typing keys while searching never reach the list bindings.
	m.Update(runes("m"))
	assert.NotContains(t, cmds.calls, "mode")
}

func TestModel_SearchEnterAppliesImmediately(t *testing.T) {
	cmds := &recordingCommands{}
	m := newLoadedModel(cmds, "a.mp3")

	m.Update(runes("/"))
	m.Update(runes("abc"))
	pending := m.searchSeq
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.searching)
	assert.Equal(t, []string{"abc"}, cmds.searches)

	// A debounce tick still in flight is ignored.
	m.Update(searchDebounceMsg{seq: pending, query: "abc"})
	assert.Equal(t, []string{"abc"}, cmds.searches)
}

func TestModel_SearchEscClears(t *testing.T) {
	cmds := &recordingCommands{}
	m := newLoadedModel(cmds, "a.mp3")

	m.Update(runes("/"))
	m.Update(runes("abc"))
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, m.searching)
	assert.Equal(t, "", m.search.Value())
	assert.Equal(t, []string{""}, cmds.searches)
}

func TestModel_TimerMenu(t *testing.T) {
	cmds := &recordingCommands{}
	m := NewModel(cmds)

	m.Update(runes("t"))
	require.True(t, m.timerMenu)
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.timerMenu)
	assert.Equal(t, domain.SleepTimerOptions[2], cmds.lastTimer)

	m.Update(runes("t"))
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, domain.SleepTimerOptions[len(domain.SleepTimerOptions)-1], cmds.lastTimer)
}

func TestModel_HistoryPanel(t *testing.T) {
	cmds := &recordingCommands{recentOK: true}
	m := NewModel(cmds)
	m.Update(historyMsg{items: items("b.mp3", "a.mp3")})

	m.Update(runes("h"))
	require.True(t, m.showHistory)
	m.Update(runes("j"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, []string{"praise/a.mp3"}, cmds.recentKeys)
	assert.False(t, m.showHistory)
}

func TestModel_PresenterMessages(t *testing.T) {
	m := NewModel(&recordingCommands{})

	m.Update(loadingMsg{dir: "praise/附录/"})
	assert.Contains(t, m.View(), "Loading praise/附录/")

	m.Update(visibleListMsg{items: items("奇异恩典.mp3", "主祷文-合.mp3"), current: -1, state: domain.LoadReady, total: 3})
	m.Update(nowPlayingMsg{item: domain.NewItem("praise/附录/", "主祷文-合.mp3"), index: 1})
	m.Update(statusMsg{status: domain.StatusPlaying})
	m.Update(queryMsg{query: domain.ListQuery{Filter: domain.FilterOnlyChorus, Search: "主"}})
	m.Update(metadataMsg{md: domain.TrackMetadata{Title: "主祷文", Artist: "诗班"}})

	view := m.View()
	assert.Equal(t, 1, m.selected)
	assert.Contains(t, view, "Playing")
	assert.Contains(t, view, "(附录)主祷文-合")
	assert.Contains(t, view, "Chorus only")
	assert.Contains(t, view, "2/3")
	assert.Contains(t, view, "主祷文 - 诗班")
	assert.Equal(t, "主", m.search.Value())

	m.Update(visibleListMsg{state: domain.LoadFailed, current: -1})
	assert.Contains(t, m.View(), "Failed to load")
}

func TestModel_EmptyStates(t *testing.T) {
	m := NewModel(&recordingCommands{})

	m.Update(visibleListMsg{state: domain.LoadReady, current: -1, total: 0})
	assert.Contains(t, m.View(), "This directory is empty.")

	m.Update(visibleListMsg{state: domain.LoadReady, current: -1, total: 4})
	assert.Contains(t, m.View(), "No items match")
}

func TestModel_NotificationExpires(t *testing.T) {
	m := NewModel(&recordingCommands{})

	_, cmd := m.Update(notificationMsg{text: "first"})
	require.NotNil(t, cmd)
	m.Update(notificationMsg{text: "second"})

	m.Update(clearNotificationMsg{seq: 1})
	assert.Equal(t, "second", m.notice)

	m.Update(clearNotificationMsg{seq: 2})
	assert.Empty(t, m.notice)
}

func TestModel_TimerCountdown(t *testing.T) {
	now := time.Date(2026, 1, 1, 21, 0, 0, 0, time.UTC)
	m := NewModel(&recordingCommands{})
	m.now = func() time.Time { return now }

	_, cmd := m.Update(timerMsg{state: domain.SleepTimerState{
		Active:   true,
		Minutes:  15,
		Deadline: now.Add(10 * time.Minute),
		Status:   "Playback stops in 15 min",
	}})
	assert.NotNil(t, cmd)
	assert.True(t, m.ticking)
	assert.Contains(t, m.View(), "10m0s left")

	m.Update(timerMsg{state: domain.SleepTimerState{Status: "Sleep timer cancelled"}})
	_, cmd = m.Update(clockTickMsg{})
	assert.Nil(t, cmd)
	assert.False(t, m.ticking)
	assert.Contains(t, m.View(), "Sleep timer cancelled")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "", truncate("abc", 0))

	got := truncate("奇异恩典奇异恩典", 7)
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.LessOrEqual(t, len([]rune(got)), 4)

	assert.Equal(t, "主  ", pad("主", 4))
}
