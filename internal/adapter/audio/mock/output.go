// Package mock provides a mock implementation of the AudioOutput interface.
// It backs the service tests and the --silent mode, where nothing reaches a device.
package mock

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tejashwikalptaru/gopraise/internal/domain"
	"github.com/tejashwikalptaru/gopraise/internal/ports"
)

type state int

const (
	stateStopped state = iota
	statePlaying
	statePaused
)

// Output is a mock AudioOutput that records requests instead of playing audio.
//
// Thread-safety: This implementation is thread-safe.
type Output struct {
	// Dependencies
	logger *slog.Logger
	bus    ports.EventBus

	mu      sync.RWMutex
	source  string
	state   state
	plays   []string
	pauses  int
	resumes int
	closed  bool

	// Behavior configuration (for testing error scenarios)
	failPlay  bool
	failPause bool
}

// NewOutput creates a mock output. bus may be nil when the Simulate helpers are not used.
func NewOutput(bus ports.EventBus) *Output {
	return &Output{
		logger: slog.New(slog.DiscardHandler),
		bus:    bus,
	}
}

// SetLogger sets the logger for this output.
func (m *Output) SetLogger(logger *slog.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = logger
}

// SetFailPlay configures the mock to reject play requests (for testing).
func (m *Output) SetFailPlay(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failPlay = fail
}

// SetFailPause configures the mock to reject pause requests (for testing).
func (m *Output) SetFailPause(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failPause = fail
}

// Play records the request and marks source as playing.
func (m *Output) Play(_ context.Context, source string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return domain.ErrOutputClosed
	}
	if m.failPlay {
		return domain.NewOutputError("play", source, "mock play failed", domain.ErrPlaybackFailed)
	}

	m.plays = append(m.plays, source)
	m.source = source
	m.state = statePlaying
	m.logger.Debug("mock play", slog.String("source", source))
	return nil
}

// Pause pauses the current source.
func (m *Output) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return domain.ErrOutputClosed
	}
	if m.failPause {
		return domain.NewOutputError("pause", m.source, "mock pause failed", nil)
	}
	if m.state == statePlaying {
		m.state = statePaused
		m.pauses++
	}
	return nil
}

// Resume resumes a paused source.
func (m *Output) Resume() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return domain.ErrOutputClosed
	}
	if m.state == statePaused {
		m.state = statePlaying
		m.resumes++
	}
	return nil
}

// Stop forgets the current source.
func (m *Output) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.source = ""
	m.state = stateStopped
	return nil
}

// Close marks the output closed; later calls fail with domain.ErrOutputClosed.
func (m *Output) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.source = ""
	m.state = stateStopped
	return nil
}

// Plays returns every source passed to a successful Play, oldest first.
func (m *Output) Plays() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, len(m.plays))
	copy(out, m.plays)
	return out
}

// PlayCount returns the number of successful Play calls.
func (m *Output) PlayCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.plays)
}

// Source returns the current source ("" if stopped).
func (m *Output) Source() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.source
}

// IsPlaying reports whether a source is playing.
func (m *Output) IsPlaying() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state == statePlaying
}

// IsPaused reports whether a source is paused.
func (m *Output) IsPaused() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state == statePaused
}

// Pauses returns how many Pause calls changed the state.
func (m *Output) Pauses() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pauses
}

// Resumes returns how many Resume calls changed the state.
func (m *Output) Resumes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.resumes
}

// SimulateEnd finishes the current source and publishes domain.OutputEndedEvent.
func (m *Output) SimulateEnd() {
	m.mu.Lock()
	source := m.source
	m.state = stateStopped
	m.mu.Unlock()

	if source != "" && m.bus != nil {
		m.bus.Publish(domain.NewOutputEndedEvent(source))
	}
}

// SimulateExternalPause pauses as a device would and publishes domain.OutputPausedEvent.
func (m *Output) SimulateExternalPause() {
	m.mu.Lock()
	source := m.source
	if m.state == statePlaying {
		m.state = statePaused
	}
	m.mu.Unlock()

	if source != "" && m.bus != nil {
		m.bus.Publish(domain.NewOutputPausedEvent(source))
	}
}

var _ ports.AudioOutput = (*Output)(nil)
