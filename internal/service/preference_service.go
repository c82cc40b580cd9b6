// Package service provides business logic for the gopraise application.
package service

import (
	"log/slog"
	"sync"

	"github.com/tejashwikalptaru/gopraise/internal/domain"
	"github.com/tejashwikalptaru/gopraise/internal/ports"
)

// PreferenceService owns the persisted list preferences: filter mode, search
// query and order flag. Values are loaded once at construction; every change is
// written through to the repository immediately and announced with a
// domain.ListQueryChangedEvent so the visible list is recomputed right away.
//
// All operations are thread-safe via sync.RWMutex.
type PreferenceService struct {
	// Dependencies (injected)
	logger     *slog.Logger
	repository ports.PreferencesRepository
	bus        ports.EventBus

	// Cached preferences
	query domain.ListQuery

	// Concurrency control
	mu sync.RWMutex
}

// NewPreferenceService creates a new preference service and loads the saved values.
func NewPreferenceService(
	logger *slog.Logger,
	repository ports.PreferencesRepository,
	bus ports.EventBus,
) *PreferenceService {
	service := &PreferenceService{
		logger:     logger,
		repository: repository,
		bus:        bus,
		query:      domain.DefaultListQuery(),
	}

	service.loadPreferences()

	logger.Debug("preference service initialized",
		slog.String("filter", string(service.query.Filter)),
		slog.String("search", service.query.Search),
		slog.Bool("reversed", service.query.Reversed))

	return service
}

// loadPreferences fills the cache. Read errors keep the defaults.
func (s *PreferenceService) loadPreferences() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if mode, err := s.repository.LoadFilterMode(); err == nil {
		s.query.Filter = mode
	} else {
		s.logger.Warn("failed to load filter mode", slog.Any("error", err))
	}

	if search, err := s.repository.LoadSearchQuery(); err == nil {
		s.query.Search = search
	} else {
		s.logger.Warn("failed to load search query", slog.Any("error", err))
	}

	if reversed, err := s.repository.LoadReversed(); err == nil {
		s.query.Reversed = reversed
	} else {
		s.logger.Warn("failed to load order flag", slog.Any("error", err))
	}
}

// Query returns the current list preferences.
func (s *PreferenceService) Query() domain.ListQuery {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// FilterMode returns the current filter mode.
func (s *PreferenceService) FilterMode() domain.FilterMode {
	return s.Query().Filter
}

// SearchQuery returns the current search text.
func (s *PreferenceService) SearchQuery() string {
	return s.Query().Search
}

// Reversed returns the current order flag.
func (s *PreferenceService) Reversed() bool {
	return s.Query().Reversed
}

// SetFilterMode changes and persists the filter mode.
func (s *PreferenceService) SetFilterMode(mode domain.FilterMode) error {
	if _, err := domain.ParseFilterMode(string(mode)); err != nil {
		return err
	}

	q := s.update(func(q *domain.ListQuery) { q.Filter = mode })
	err := s.persist("SetFilterMode", s.repository.SaveFilterMode(mode))
	s.bus.Publish(domain.NewListQueryChangedEvent(q))
	return err
}

// CycleFilterMode advances All -> OnlyChorus -> ExcludeChorus -> All.
func (s *PreferenceService) CycleFilterMode() (domain.FilterMode, error) {
	next := s.FilterMode().Next()
	return next, s.SetFilterMode(next)
}

// SetSearchQuery changes and persists the search text. The raw text is kept;
// trimming happens in the pipeline.
func (s *PreferenceService) SetSearchQuery(search string) error {
	q := s.update(func(q *domain.ListQuery) { q.Search = search })
	err := s.persist("SetSearchQuery", s.repository.SaveSearchQuery(search))
	s.bus.Publish(domain.NewListQueryChangedEvent(q))
	return err
}

// SetReversed changes and persists the order flag.
func (s *PreferenceService) SetReversed(reversed bool) error {
	q := s.update(func(q *domain.ListQuery) { q.Reversed = reversed })
	err := s.persist("SetReversed", s.repository.SaveReversed(reversed))
	s.bus.Publish(domain.NewListQueryChangedEvent(q))
	return err
}

// ToggleReversed flips the order flag and returns the new value.
func (s *PreferenceService) ToggleReversed() (bool, error) {
	next := !s.Reversed()
	return next, s.SetReversed(next)
}

// Reset restores the defaults and clears the stored values.
func (s *PreferenceService) Reset() error {
	q := s.update(func(q *domain.ListQuery) { *q = domain.DefaultListQuery() })
	err := s.persist("Reset", s.repository.Clear())
	s.bus.Publish(domain.NewListQueryChangedEvent(q))
	return err
}

func (s *PreferenceService) update(mutate func(q *domain.ListQuery)) domain.ListQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	mutate(&s.query)
	return s.query
}

// persist wraps a repository failure. The cached value stays changed so the
// session keeps working without storage.
func (s *PreferenceService) persist(op string, err error) error {
	if err == nil {
		return nil
	}
	s.logger.Warn("failed to persist preference", slog.String("op", op), slog.Any("error", err))
	return domain.NewServiceError("PreferenceService", op, "failed to persist preference", err)
}
