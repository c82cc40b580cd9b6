package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tejashwikalptaru/gopraise/internal/domain"
	"github.com/tejashwikalptaru/gopraise/internal/ports"
)

// Sender delivers a message to a running bubbletea program.
// *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// ProgramView implements ports.View by turning every call into a tea.Msg.
//
// Events are often published from inside Update (a key press calls a service,
// the service publishes, the presenter calls the view). tea.Program.Send
// blocks until the event loop receives the message, so calls are queued and
// forwarded in order by a pump goroutine instead.
type ProgramView struct {
	mu      sync.Mutex
	queue   []tea.Msg
	target  Sender
	notify  chan struct{}
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// NewProgramView creates a view. Messages are held until Attach is called.
func NewProgramView() *ProgramView {
	return &ProgramView{
		notify:  make(chan struct{}, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Attach starts forwarding queued and future messages to target.
func (v *ProgramView) Attach(target Sender) {
	v.mu.Lock()
	if v.target != nil {
		v.mu.Unlock()
		return
	}
	v.target = target
	v.mu.Unlock()

	go v.pump()
	v.wake()
}

// Close stops the pump. Messages sent after Close are dropped.
func (v *ProgramView) Close() {
	v.once.Do(func() {
		close(v.done)
		v.mu.Lock()
		attached := v.target != nil
		v.mu.Unlock()
		if attached {
			<-v.stopped
		}
	})
}

func (v *ProgramView) pump() {
	defer close(v.stopped)
	for {
		select {
		case <-v.done:
			return
		case <-v.notify:
		}

		v.mu.Lock()
		batch := v.queue
		v.queue = nil
		target := v.target
		v.mu.Unlock()

		for _, msg := range batch {
			select {
			case <-v.done:
				return
			default:
			}
			target.Send(msg)
		}
	}
}

func (v *ProgramView) wake() {
	select {
	case v.notify <- struct{}{}:
	default:
	}
}

func (v *ProgramView) send(msg tea.Msg) {
	select {
	case <-v.done:
		return
	default:
	}

	v.mu.Lock()
	v.queue = append(v.queue, msg)
	attached := v.target != nil
	v.mu.Unlock()

	if attached {
		v.wake()
	}
}

func (v *ProgramView) ShowVisibleList(items []domain.Item, currentIndex int, state domain.LoadState, total int) {
	v.send(visibleListMsg{items: items, current: currentIndex, state: state, total: total})
}

func (v *ProgramView) ShowLoading(dir string) { v.send(loadingMsg{dir: dir}) }

func (v *ProgramView) ShowNowPlaying(item domain.Item, index int) {
	v.send(nowPlayingMsg{item: item, index: index})
}

func (v *ProgramView) ShowTrackMetadata(md domain.TrackMetadata) { v.send(metadataMsg{md: md}) }

func (v *ProgramView) SetPlaybackStatus(status domain.PlaybackStatus) {
	v.send(statusMsg{status: status})
}

func (v *ProgramView) SetPlayMode(mode domain.PlayMode) { v.send(modeMsg{mode: mode}) }

func (v *ProgramView) SetListQuery(q domain.ListQuery) { v.send(queryMsg{query: q}) }

func (v *ProgramView) ShowHistory(items []domain.Item) { v.send(historyMsg{items: items}) }

func (v *ProgramView) ShowTimerStatus(state domain.SleepTimerState) {
	v.send(timerMsg{state: state})
}

func (v *ProgramView) ShowNotification(message string) { v.send(notificationMsg{text: message}) }

var _ ports.View = (*ProgramView)(nil)

// NewProgram creates the full-screen program for model and attaches view to it.
func NewProgram(model *Model, view *ProgramView, opts ...tea.ProgramOption) *tea.Program {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	program := tea.NewProgram(model, opts...)
	view.Attach(program)
	return program
}
