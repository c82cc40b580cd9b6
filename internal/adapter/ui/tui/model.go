package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tejashwikalptaru/gopraise/internal/domain"
)

const noticeTimeout = 4 * time.Second

// Commands is what the model asks of the application. *Presenter satisfies it.
type Commands interface {
	PlayIndex(index int)
	PlayRecent(key string) bool
	TogglePlay()
	Stop()
	CycleMode()
	CycleFilter()
	ToggleOrder()
	ResetQuery()
	Search(query string)
	NextDirectory()
	Reload()
	StartTimer(minutes int)
	CancelTimer()
}

// Model is the bubbletea model. It only renders what the presenter sends and
// forwards key presses to Commands.
type Model struct {
	cmds     Commands
	keys     keyMap
	help     help.Model
	search   textinput.Model
	debounce time.Duration
	now      func() time.Time

	// List state
	directory string
	items     []domain.Item
	current   int
	loadState domain.LoadState
	total     int
	selected  int
	offset    int
	query     domain.ListQuery

	// Playback state
	nowPlaying  domain.Item
	metadata    domain.TrackMetadata
	hasMetadata bool
	status      domain.PlaybackStatus
	mode        domain.PlayMode

	// Recently played
	history         []domain.Item
	showHistory     bool
	historySelected int

	// Sleep timer
	timer       domain.SleepTimerState
	timerMenu   bool
	timerChoice int
	ticking     bool

	// Search
	searching bool
	searchSeq int

	notice    string
	noticeSeq int

	width  int
	height int
}

// NewModel creates a model that sends commands to cmds.
func NewModel(cmds Commands) *Model {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search"
	ti.CharLimit = 64

	return &Model{
		cmds:     cmds,
		keys:     keys,
		help:     help.New(),
		search:   ti,
		debounce: SearchDebounce,
		now:      time.Now,
		current:  -1,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.search.Width = max(msg.Width-8, 10)
		m.scrollToSelected()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case searchDebounceMsg:
		if msg.seq == m.searchSeq {
			m.cmds.Search(msg.query)
		}
		return m, nil

	case visibleListMsg:
		m.items = msg.items
		m.current = msg.current
		m.loadState = msg.state
		m.total = msg.total
		if m.selected >= len(m.items) {
			m.selected = max(len(m.items)-1, 0)
		}
		m.scrollToSelected()
		return m, nil

	case loadingMsg:
		m.directory = msg.dir
		m.loadState = domain.LoadLoading
		return m, nil

	case nowPlayingMsg:
		m.nowPlaying = msg.item
		m.current = msg.index
		m.hasMetadata = false
		if msg.index >= 0 {
			m.selected = msg.index
			m.scrollToSelected()
		}
		return m, nil

	case metadataMsg:
		m.metadata = msg.md
		m.hasMetadata = true
		return m, nil

	case statusMsg:
		m.status = msg.status
		return m, nil

	case modeMsg:
		m.mode = msg.mode
		return m, nil

	case queryMsg:
		m.query = msg.query
		if !m.searching {
			m.search.SetValue(msg.query.Search)
		}
		return m, nil

	case historyMsg:
		m.history = msg.items
		if m.historySelected >= len(m.history) {
			m.historySelected = max(len(m.history)-1, 0)
		}
		return m, nil

	case timerMsg:
		m.timer = msg.state
		if m.timer.Active && !m.ticking {
			m.ticking = true
			return m, clockTick()
		}
		return m, nil

	case clockTickMsg:
		if !m.timer.Active {
			m.ticking = false
			return m, nil
		}
		return m, clockTick()

	case notificationMsg:
		m.noticeSeq++
		m.notice = msg.text
		seq := m.noticeSeq
		return m, tea.Tick(noticeTimeout, func(time.Time) tea.Msg { return clearNotificationMsg{seq: seq} })

	case clearNotificationMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil
	}

	return m, nil
}

func clockTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return clockTickMsg{} })
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch {
	case m.searching:
		return m.handleSearchKey(msg)
	case m.timerMenu:
		return m.handleTimerKey(msg)
	case m.showHistory:
		if handled := m.handleHistoryKey(msg); handled {
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
		m.scrollToSelected()
	case key.Matches(msg, m.keys.Bottom):
		m.selected = max(len(m.items)-1, 0)
		m.scrollToSelected()
	case key.Matches(msg, m.keys.Play):
		if m.selected < len(m.items) {
			m.cmds.PlayIndex(m.selected)
		}
	case key.Matches(msg, m.keys.Toggle):
		m.cmds.TogglePlay()
	case key.Matches(msg, m.keys.Stop):
		m.cmds.Stop()
	case key.Matches(msg, m.keys.Mode):
		m.cmds.CycleMode()
	case key.Matches(msg, m.keys.Filter):
		m.cmds.CycleFilter()
	case key.Matches(msg, m.keys.Order):
		m.cmds.ToggleOrder()
	case key.Matches(msg, m.keys.Clear):
		m.cmds.ResetQuery()
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.NextDir):
		m.cmds.NextDirectory()
	case key.Matches(msg, m.keys.Reload):
		m.cmds.Reload()
	case key.Matches(msg, m.keys.History):
		m.showHistory = !m.showHistory
		m.historySelected = 0
	case key.Matches(msg, m.keys.Timer):
		m.timerMenu = true
	case key.Matches(msg, m.keys.Cancel):
		m.cmds.CancelTimer()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// handleSearchKey edits the search box. Every change restarts the debounce;
// enter applies the term at once and esc clears it.
func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		m.searchSeq++
		m.cmds.Search(m.search.Value())
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.searchSeq++
		m.cmds.Search("")
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if after := m.search.Value(); after != before {
		m.searchSeq++
		return m, tea.Batch(cmd, debounceSearch(m.searchSeq, after, m.debounce))
	}
	return m, cmd
}

func (m *Model) handleTimerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(domain.SleepTimerOptions)
	switch msg.String() {
	case "left", "up", "k", "h":
		m.timerChoice = (m.timerChoice - 1 + n) % n
	case "right", "down", "j", "l":
		m.timerChoice = (m.timerChoice + 1) % n
	case "enter":
		m.timerMenu = false
		m.cmds.StartTimer(domain.SleepTimerOptions[m.timerChoice])
	case "x":
		m.timerMenu = false
		m.cmds.CancelTimer()
	case "esc", "t", "q":
		m.timerMenu = false
	}
	return m, nil
}

// handleHistoryKey reports whether the key was consumed by the history panel.
func (m *Model) handleHistoryKey(msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.historySelected > 0 {
			m.historySelected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.historySelected < len(m.history)-1 {
			m.historySelected++
		}
	case key.Matches(msg, m.keys.Play):
		if m.historySelected < len(m.history) && m.cmds.PlayRecent(m.history[m.historySelected].Key) {
			m.showHistory = false
		}
	case msg.Type == tea.KeyEsc:
		m.showHistory = false
	default:
		return false
	}
	return true
}

func (m *Model) moveSelection(delta int) {
	if len(m.items) == 0 {
		return
	}
	m.selected = min(max(m.selected+delta, 0), len(m.items)-1)
	m.scrollToSelected()
}

// scrollToSelected keeps the selected row inside the list window.
func (m *Model) scrollToSelected() {
	rows := m.listHeight()
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+rows {
		m.offset = m.selected - rows + 1
	}
	if m.offset > max(len(m.items)-rows, 0) {
		m.offset = max(len(m.items)-rows, 0)
	}
}
