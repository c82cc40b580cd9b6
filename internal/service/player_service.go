// Package service provides business logic for the gopraise application.
package service

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/tejashwikalptaru/gopraise/internal/domain"
	"github.com/tejashwikalptaru/gopraise/internal/ports"
)

// PlaybackOptions configures a PlaybackService.
type PlaybackOptions struct {
	// ChorusMatcher decides which items the chorus filters act on.
	// Defaults to domain.SuffixMatcher(domain.DefaultChorusSuffix).
	ChorusMatcher domain.ChorusMatcher

	// InitialQuery is the list query in effect before any change event arrives,
	// normally PreferenceService.Query().
	InitialQuery domain.ListQuery

	// HistoryCapacity defaults to domain.HistoryCapacity.
	HistoryCapacity int

	// RandomIntN returns a uniform int in [0, n). Defaults to math/rand/v2.IntN.
	RandomIntN func(n int) int
}

// PlaybackService is the playback controller. It owns the visible list, the
// cursor, the play mode and the history, and drives the audio output.
//
// The visible list is recomputed from scratch whenever the catalog or the list
// query changes (both arrive as events), and the cursor index is re-resolved
// by key after every recompute.
//
// All operations are thread-safe via sync.RWMutex. Events are published and
// the output is called without the lock held.
type PlaybackService struct {
	// Dependencies (injected)
	logger  *slog.Logger
	output  ports.AudioOutput
	locator ports.SourceLocator
	bus     ports.EventBus

	isChorus domain.ChorusMatcher
	intN     func(n int) int

	// List state
	catalog    []domain.Item
	catalogGen uint64
	directory  string
	loadState  domain.LoadState
	query      domain.ListQuery
	visible    []domain.Item

	// Playback state
	cursor     domain.Cursor
	nowPlaying domain.Item
	source     string
	status     domain.PlaybackStatus
	mode       domain.PlayMode
	history    *domain.History

	// Lifecycle
	ctx           context.Context
	cancel        context.CancelFunc
	subscriptions []domain.SubscriptionID
	closed        bool

	// Concurrency control
	mu sync.RWMutex
}

// NewPlaybackService creates a new playback service and subscribes it to
// catalog, list query and audio output events.
func NewPlaybackService(
	logger *slog.Logger,
	output ports.AudioOutput,
	locator ports.SourceLocator,
	bus ports.EventBus,
	opts PlaybackOptions,
) *PlaybackService {
	if opts.ChorusMatcher == nil {
		opts.ChorusMatcher = domain.SuffixMatcher(domain.DefaultChorusSuffix)
	}
	if opts.RandomIntN == nil {
		opts.RandomIntN = rand.IntN
	}
	if opts.InitialQuery.Filter == "" {
		opts.InitialQuery.Filter = domain.FilterAll
	}

	ctx, cancel := context.WithCancel(context.Background())

	service := &PlaybackService{
		logger:   logger,
		output:   output,
		locator:  locator,
		bus:      bus,
		isChorus: opts.ChorusMatcher,
		intN:     opts.RandomIntN,
		query:    opts.InitialQuery,
		visible:  []domain.Item{},
		cursor:   domain.NoCursor,
		status:   domain.StatusIdle,
		mode:     domain.PlayModeSequential,
		history:  domain.NewHistory(opts.HistoryCapacity),
		ctx:      ctx,
		cancel:   cancel,
	}

	service.subscribe()

	logger.Debug("playback service initialized")

	return service
}

func (s *PlaybackService) subscribe() {
	handlers := map[domain.EventType]domain.EventHandler{
		domain.EventCatalogLoading:    s.handleCatalogLoading,
		domain.EventCatalogLoaded:     s.handleCatalogLoaded,
		domain.EventCatalogLoadFailed: s.handleCatalogLoadFailed,
		domain.EventListQueryChanged:  s.handleListQueryChanged,
		domain.EventOutputEnded:       s.handleOutputEnded,
		domain.EventOutputPaused:      s.handleOutputPaused,
		domain.EventOutputError:       s.handleOutputError,
	}

	for eventType, handler := range handlers {
		s.subscriptions = append(s.subscriptions, s.bus.Subscribe(eventType, handler))
	}
}

// PlayByIndex plays the item at index of the current visible list.
// An out-of-range index is ignored. A rejected play request is logged and
// reported with domain.PlaybackFailedEvent; the cursor and history still move
// so the list stays navigable.
func (s *PlaybackService) PlayByIndex(index int) {
	s.mu.Lock()
	if s.closed || index < 0 || index >= len(s.visible) {
		n := len(s.visible)
		s.mu.Unlock()
		s.logger.Debug("play by index ignored", slog.Int("index", index), slog.Int("visible", n))
		return
	}

	item := s.visible[index]
	events, source := s.selectLocked(item, index)
	s.mu.Unlock()

	s.publish(events...)
	s.start(item, source)
}

// PlayKey plays the item with key if it is part of the visible list.
// It reports whether playback was requested.
func (s *PlaybackService) PlayKey(key string) bool {
	s.mu.RLock()
	index := domain.IndexOfKey(s.visible, key)
	s.mu.RUnlock()

	if index < 0 {
		s.logger.Debug("play by key ignored, not visible", slog.String("key", key))
		return false
	}
	s.PlayByIndex(index)
	return true
}

// selectLocked makes item current. Caller must hold the lock.
func (s *PlaybackService) selectLocked(item domain.Item, index int) ([]domain.Event, string) {
	s.cursor = domain.Cursor{Key: item.Key, Index: index}
	s.nowPlaying = item
	s.source = s.locator.SourceURL(item.Key)
	s.status = domain.StatusLoaded
	s.history.Push(item)

	return []domain.Event{
		domain.NewNowPlayingChangedEvent(item, index),
		domain.NewHistoryChangedEvent(s.history.Items()),
	}, s.source
}

// start asks the output to play source. Failures are swallowed.
func (s *PlaybackService) start(item domain.Item, source string) {
	s.logger.Debug("starting playback", slog.String("key", item.Key), slog.String("source", source))

	if err := s.output.Play(s.ctx, source); err != nil {
		s.logger.Warn("playback request failed",
			slog.String("key", item.Key),
			slog.Any("error", err))
		s.publish(domain.NewPlaybackFailedEvent(item, err))
		return
	}

	s.mu.Lock()
	current := s.source == source
	if current {
		s.status = domain.StatusPlaying
	}
	s.mu.Unlock()

	if current {
		s.publish(domain.NewTrackStartedEvent(item))
	}
}

// AdvanceOnEnd picks what plays after the current item finished naturally.
//
//   - Sequential: the next visible item, or stop after the last one.
//   - RepeatOne: the current item again, or stop when it is no longer visible.
//   - Shuffle: a uniformly random other visible item; a single-item list replays it.
//
// Nothing plays when the visible list is empty.
func (s *PlaybackService) AdvanceOnEnd() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	n := len(s.visible)
	current := s.cursor.Index
	next := -1

	switch {
	case n == 0:
	case s.mode == domain.PlayModeSequential:
		if current >= 0 && current < n-1 {
			next = current + 1
		}
	case s.mode == domain.PlayModeRepeatOne:
		// -1 when the current item was filtered out: playback stops.
		next = current
	case s.mode == domain.PlayModeShuffle:
		next = s.shuffleIndexLocked(n, current)
	}

	if next < 0 {
		stopped := s.nowPlaying
		if s.cursor.HasKey() {
			s.status = domain.StatusLoaded
		}
		s.mu.Unlock()

		s.logger.Debug("playback finished", slog.String("mode", s.Mode().String()))
		if !stopped.IsZero() {
			s.publish(domain.NewTrackStoppedEvent(stopped))
		}
		return
	}

	item := s.visible[next]
	events, source := s.selectLocked(item, next)
	s.mu.Unlock()

	s.publish(events...)
	s.start(item, source)
}

// shuffleIndexLocked draws uniformly from [0, n) excluding current in a single
// draw, so it never loops. Caller must hold the lock.
func (s *PlaybackService) shuffleIndexLocked(n, current int) int {
	if n == 1 {
		return 0
	}
	if current < 0 || current >= n {
		return s.intN(n)
	}
	r := s.intN(n - 1)
	if r >= current {
		r++
	}
	return r
}

// Play resumes a paused item or restarts a loaded one.
// It returns domain.ErrNoItemLoaded when nothing was ever selected.
func (s *PlaybackService) Play() error {
	s.mu.RLock()
	closed := s.closed
	hasKey := s.cursor.HasKey()
	status := s.status
	item, source := s.nowPlaying, s.source
	s.mu.RUnlock()

	switch {
	case closed:
		return domain.ErrServiceClosed
	case !hasKey:
		return domain.ErrNoItemLoaded
	case status == domain.StatusPlaying:
		return nil
	case status == domain.StatusPaused:
		if err := s.output.Resume(); err != nil {
			s.logger.Warn("resume failed", slog.Any("error", err))
			s.publish(domain.NewPlaybackFailedEvent(item, err))
			return nil
		}
		s.mu.Lock()
		s.status = domain.StatusPlaying
		s.mu.Unlock()
		s.publish(domain.NewTrackStartedEvent(item))
		return nil
	default:
		s.start(item, source)
		return nil
	}
}

// Pause pauses playback. Pausing when not playing is a no-op.
func (s *PlaybackService) Pause() error {
	s.mu.RLock()
	playing := s.status == domain.StatusPlaying
	item := s.nowPlaying
	s.mu.RUnlock()

	if !playing {
		return nil
	}

	if err := s.output.Pause(); err != nil {
		s.logger.Warn("pause failed", slog.Any("error", err))
		return domain.NewServiceError("PlaybackService", "Pause", "output rejected pause", err)
	}

	s.mu.Lock()
	s.status = domain.StatusPaused
	s.mu.Unlock()

	s.publish(domain.NewTrackPausedEvent(item))
	return nil
}

// TogglePlay pauses when playing and plays otherwise.
func (s *PlaybackService) TogglePlay() error {
	if s.Status() == domain.StatusPlaying {
		return s.Pause()
	}
	return s.Play()
}

// Stop stops the output. The current item stays selected.
func (s *PlaybackService) Stop() error {
	s.mu.Lock()
	item := s.nowPlaying
	if s.cursor.HasKey() {
		s.status = domain.StatusLoaded
	}
	s.mu.Unlock()

	if err := s.output.Stop(); err != nil {
		return domain.NewServiceError("PlaybackService", "Stop", "output rejected stop", err)
	}
	if !item.IsZero() {
		s.publish(domain.NewTrackStoppedEvent(item))
	}
	return nil
}

// CycleMode advances Sequential -> RepeatOne -> Shuffle -> Sequential.
// The mode is held in memory only.
func (s *PlaybackService) CycleMode() domain.PlayMode {
	s.mu.Lock()
	s.mode = s.mode.Next()
	mode := s.mode
	s.mu.Unlock()

	s.publish(domain.NewPlayModeChangedEvent(mode))
	return mode
}

// ResolveCursor recomputes the cursor index by key against the visible list
// and returns it (-1 when the current item is not visible).
func (s *PlaybackService) ResolveCursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolveCursorLocked()
}

func (s *PlaybackService) resolveCursorLocked() int {
	s.cursor.Index = domain.IndexOfKey(s.visible, s.cursor.Key)
	return s.cursor.Index
}

// recomputeLocked rebuilds the visible list and re-resolves the cursor.
// Caller must hold the lock.
func (s *PlaybackService) recomputeLocked() domain.Event {
	s.visible = domain.Recompute(s.catalog, s.query, s.isChorus)
	index := s.resolveCursorLocked()

	return domain.NewVisibleListChangedEvent(slices.Clone(s.visible), index, s.loadState, len(s.catalog))
}

func (s *PlaybackService) handleCatalogLoading(event domain.Event) {
	e, ok := event.(domain.CatalogLoadingEvent)
	if !ok {
		return
	}
	s.mu.Lock()
	if e.Generation < s.catalogGen {
		s.mu.Unlock()
		return
	}
	s.catalogGen = e.Generation
	s.loadState = domain.LoadLoading
	s.mu.Unlock()

	s.logger.Debug("catalog loading", slog.String("dir", e.Directory))
}

func (s *PlaybackService) handleCatalogLoaded(event domain.Event) {
	e, ok := event.(domain.CatalogLoadedEvent)
	if !ok {
		return
	}
	s.replaceCatalog(e.Generation, e.Directory, e.Items, domain.LoadReady)
}

func (s *PlaybackService) handleCatalogLoadFailed(event domain.Event) {
	e, ok := event.(domain.CatalogLoadFailedEvent)
	if !ok {
		return
	}
	s.replaceCatalog(e.Generation, e.Directory, nil, domain.LoadFailed)
}

// replaceCatalog applies a load result unless a newer load was already seen.
func (s *PlaybackService) replaceCatalog(gen uint64, dir string, items []domain.Item, state domain.LoadState) {
	s.mu.Lock()
	if gen < s.catalogGen {
		s.mu.Unlock()
		s.logger.Debug("ignoring superseded catalog", slog.String("dir", dir), slog.Uint64("generation", gen))
		return
	}
	s.catalogGen = gen
	s.catalog = slices.Clone(items)
	s.directory = dir
	s.loadState = state
	changed := s.recomputeLocked()
	s.mu.Unlock()

	s.logger.Debug("catalog replaced",
		slog.String("dir", dir),
		slog.Int("items", len(items)),
		slog.String("state", state.String()))

	s.publish(changed)
}

func (s *PlaybackService) handleListQueryChanged(event domain.Event) {
	e, ok := event.(domain.ListQueryChangedEvent)
	if !ok {
		return
	}

	s.mu.Lock()
	s.query = e.Query
	changed := s.recomputeLocked()
	s.mu.Unlock()

	s.publish(changed)
}

// isCurrentSource reports whether source belongs to the current item.
func (s *PlaybackService) isCurrentSource(source string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return source != "" && source == s.source
}

func (s *PlaybackService) handleOutputEnded(event domain.Event) {
	e, ok := event.(domain.OutputEndedEvent)
	if !ok || !s.isCurrentSource(e.Source) {
		return
	}
	s.AdvanceOnEnd()
}

func (s *PlaybackService) handleOutputPaused(event domain.Event) {
	e, ok := event.(domain.OutputPausedEvent)
	if !ok || !s.isCurrentSource(e.Source) {
		return
	}

	s.mu.Lock()
	if s.status != domain.StatusPlaying {
		s.mu.Unlock()
		return
	}
	s.status = domain.StatusPaused
	item := s.nowPlaying
	s.mu.Unlock()

	s.publish(domain.NewTrackPausedEvent(item))
}

func (s *PlaybackService) handleOutputError(event domain.Event) {
	e, ok := event.(domain.OutputErrorEvent)
	if !ok || !s.isCurrentSource(e.Source) {
		return
	}

	s.mu.Lock()
	s.status = domain.StatusLoaded
	item := s.nowPlaying
	s.mu.Unlock()

	s.logger.Warn("playback failed", slog.String("key", item.Key), slog.Any("error", e.Error))
	s.publish(domain.NewPlaybackFailedEvent(item, e.Error))
}

func (s *PlaybackService) publish(events ...domain.Event) {
	for _, e := range events {
		s.bus.Publish(e)
	}
}

// VisibleList returns a copy of the current visible list.
func (s *PlaybackService) VisibleList() []domain.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.visible)
}

// Cursor returns the current cursor.
func (s *PlaybackService) Cursor() domain.Cursor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor
}

// NowPlaying returns the current item, zero if none.
func (s *PlaybackService) NowPlaying() domain.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nowPlaying
}

// Status returns the playback status.
func (s *PlaybackService) Status() domain.PlaybackStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Mode returns the play mode.
func (s *PlaybackService) Mode() domain.PlayMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// History returns the recently played items, most recent first.
func (s *PlaybackService) History() []domain.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.Items()
}

// GetState returns a snapshot of the controller.
func (s *PlaybackService) GetState() domain.PlaybackState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.PlaybackState{
		Cursor:      s.cursor,
		NowPlaying:  s.nowPlaying,
		Status:      s.status,
		Mode:        s.mode,
		Directory:   s.directory,
		LoadState:   s.loadState,
		Visible:     slices.Clone(s.visible),
		CatalogSize: len(s.catalog),
	}
}

// Shutdown unsubscribes from the bus, cancels in-flight requests and stops the output.
func (s *PlaybackService) Shutdown() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	subs := s.subscriptions
	s.subscriptions = nil
	s.mu.Unlock()

	s.cancel()
	for _, id := range subs {
		s.bus.Unsubscribe(id)
	}

	s.logger.Debug("playback service shut down")
	return s.output.Stop()
}

// Verify PlaybackService satisfies the pause dependency of the sleep timer.
var _ PlaybackPauser = (*PlaybackService)(nil)
