package service

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tejashwikalptaru/gopraise/internal/domain"
	"github.com/tejashwikalptaru/gopraise/internal/ports"
)

// PlaybackPauser is what the sleep timer stops when it fires.
type PlaybackPauser interface {
	Pause() error
}

// Sleep timer status messages.
const (
	timerStoppedStatus   = "Playback stopped by sleep timer"
	timerCancelledStatus = "Sleep timer off"
)

// SleepTimerService pauses playback once after a chosen number of minutes.
// At most one timer is pending: Start replaces the previous timer, and a
// generation counter guarantees that a replaced timer never pauses playback
// even if its callback was already running.
//
// All operations are thread-safe via sync.Mutex.
type SleepTimerService struct {
	// Dependencies (injected)
	logger    *slog.Logger
	scheduler ports.Scheduler
	player    PlaybackPauser
	bus       ports.EventBus

	// State
	timer      ports.Timer
	generation uint64
	state      domain.SleepTimerState

	// Concurrency control
	mu sync.Mutex
}

// NewSleepTimerService creates a sleep timer service.
func NewSleepTimerService(
	logger *slog.Logger,
	scheduler ports.Scheduler,
	player PlaybackPauser,
	bus ports.EventBus,
) *SleepTimerService {
	logger.Debug("sleep timer service initialized")

	return &SleepTimerService{
		logger:    logger,
		scheduler: scheduler,
		player:    player,
		bus:       bus,
	}
}

// Start schedules a pause after minutes, replacing any pending timer.
func (s *SleepTimerService) Start(minutes int) error {
	if minutes <= 0 {
		return domain.NewValidationError("minutes", minutes, domain.ErrInvalidDuration.Error())
	}

	d := time.Duration(minutes) * time.Minute

	s.mu.Lock()
	s.stopLocked()
	s.generation++
	gen := s.generation
	s.state = domain.SleepTimerState{
		Active:   true,
		Minutes:  minutes,
		Deadline: s.scheduler.Now().Add(d),
		Status:   fmt.Sprintf("Playback stops in %d min", minutes),
	}
	s.timer = s.scheduler.AfterFunc(d, func() { s.fire(gen) })
	state := s.state
	s.mu.Unlock()

	s.logger.Info("sleep timer started", slog.Int("minutes", minutes))
	s.bus.Publish(domain.NewTimerStatusChangedEvent(state))
	return nil
}

// Cancel clears the pending timer. It does nothing when no timer is pending.
func (s *SleepTimerService) Cancel() {
	s.mu.Lock()
	if !s.state.Active {
		s.mu.Unlock()
		return
	}
	s.stopLocked()
	s.generation++
	s.state = domain.SleepTimerState{Status: timerCancelledStatus}
	state := s.state
	s.mu.Unlock()

	s.logger.Info("sleep timer cancelled")
	s.bus.Publish(domain.NewTimerStatusChangedEvent(state))
}

// State returns the timer state.
func (s *SleepTimerService) State() domain.SleepTimerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Shutdown stops the pending timer without publishing.
func (s *SleepTimerService) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.generation++
	s.state = domain.SleepTimerState{}
}

func (s *SleepTimerService) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *SleepTimerService) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.generation || !s.state.Active {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.state = domain.SleepTimerState{Status: timerStoppedStatus}
	state := s.state
	s.mu.Unlock()

	if err := s.player.Pause(); err != nil {
		s.logger.Warn("sleep timer failed to pause playback", slog.Any("error", err))
	}

	s.logger.Info("sleep timer fired")
	s.bus.Publish(domain.NewTimerStatusChangedEvent(state))
}
