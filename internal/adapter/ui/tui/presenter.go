// Package tui is the terminal front end of gopraise, built on bubbletea.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tejashwikalptaru/gopraise/internal/domain"
	"github.com/tejashwikalptaru/gopraise/internal/ports"
	"github.com/tejashwikalptaru/gopraise/internal/service"
)

// Presenter coordinates between the services and the view.
//
// Responsibilities:
// - Subscribe to events from the event bus
// - Map domain events to view updates
// - Translate user commands to service method calls
//
// Catalog loads run on their own goroutine so a slow listing never blocks
// the caller; their results arrive through the bus like everything else.
type Presenter struct {
	logger *slog.Logger

	playback *service.PlaybackService
	catalog  *service.CatalogService
	prefs    *service.PreferenceService
	timer    *service.SleepTimerService

	bus  ports.EventBus
	view ports.View

	ctx           context.Context
	cancel        context.CancelFunc
	loads         sync.WaitGroup
	subscriptions []domain.SubscriptionID

	mu           sync.Mutex
	shutdownOnce sync.Once
}

// NewPresenter creates a presenter, subscribes it to the bus and pushes the
// current state to the view.
func NewPresenter(
	logger *slog.Logger,
	playback *service.PlaybackService,
	catalog *service.CatalogService,
	prefs *service.PreferenceService,
	timer *service.SleepTimerService,
	bus ports.EventBus,
	view ports.View,
) *Presenter {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Presenter{
		logger:   logger,
		playback: playback,
		catalog:  catalog,
		prefs:    prefs,
		timer:    timer,
		bus:      bus,
		view:     view,
		ctx:      ctx,
		cancel:   cancel,
	}

	p.subscribeToEvents()
	p.syncInitialState()

	return p
}

func (p *Presenter) subscribeToEvents() {
	subscriptions := map[domain.EventType]domain.EventHandler{
		// Catalog events
		domain.EventCatalogLoading:    p.onCatalogLoading,
		domain.EventCatalogLoadFailed: p.onCatalogLoadFailed,

		// List events
		domain.EventVisibleListChanged: p.onVisibleListChanged,
		domain.EventListQueryChanged:   p.onListQueryChanged,

		// Playback events
		domain.EventNowPlayingChanged: p.onNowPlayingChanged,
		domain.EventTrackStarted:      p.onStatusChanged,
		domain.EventTrackPaused:       p.onStatusChanged,
		domain.EventTrackStopped:      p.onStatusChanged,
		domain.EventPlaybackFailed:    p.onPlaybackFailed,
		domain.EventTrackMetadata:     p.onTrackMetadata,
		domain.EventPlayModeChanged:   p.onPlayModeChanged,
		domain.EventHistoryChanged:    p.onHistoryChanged,

		// Timer events
		domain.EventTimerStatusChanged: p.onTimerStatusChanged,
	}

	for eventType, handler := range subscriptions {
		p.subscriptions = append(p.subscriptions, p.bus.Subscribe(eventType, handler))
	}
}

// syncInitialState pushes the current service state to the view.
func (p *Presenter) syncInitialState() {
	state := p.playback.GetState()

	p.view.SetListQuery(p.prefs.Query())
	p.view.ShowVisibleList(state.Visible, state.Cursor.Index, state.LoadState, state.CatalogSize)
	p.view.SetPlayMode(state.Mode)
	p.view.SetPlaybackStatus(state.Status)
	if !state.NowPlaying.IsZero() {
		p.view.ShowNowPlaying(state.NowPlaying, state.Cursor.Index)
	}
	p.view.ShowHistory(p.playback.History())
	p.view.ShowTimerStatus(p.timer.State())
}

// Event handlers

func (p *Presenter) onCatalogLoading(event domain.Event) {
	if e, ok := event.(domain.CatalogLoadingEvent); ok {
		p.view.ShowLoading(e.Directory)
	}
}

func (p *Presenter) onCatalogLoadFailed(event domain.Event) {
	if e, ok := event.(domain.CatalogLoadFailedEvent); ok {
		p.view.ShowNotification(fmt.Sprintf("Could not load %s: %v", e.Directory, e.Error))
	}
}

func (p *Presenter) onVisibleListChanged(event domain.Event) {
	if e, ok := event.(domain.VisibleListChangedEvent); ok {
		p.view.ShowVisibleList(e.Items, e.CurrentIndex, e.LoadState, e.Total)
	}
}

func (p *Presenter) onListQueryChanged(event domain.Event) {
	if e, ok := event.(domain.ListQueryChangedEvent); ok {
		p.view.SetListQuery(e.Query)
	}
}

func (p *Presenter) onNowPlayingChanged(event domain.Event) {
	if e, ok := event.(domain.NowPlayingChangedEvent); ok {
		p.view.ShowNowPlaying(e.Item, e.Index)
	}
}

func (p *Presenter) onStatusChanged(domain.Event) {
	p.view.SetPlaybackStatus(p.playback.Status())
}

func (p *Presenter) onPlaybackFailed(event domain.Event) {
	e, ok := event.(domain.PlaybackFailedEvent)
	if !ok {
		return
	}
	p.view.SetPlaybackStatus(p.playback.Status())
	p.view.ShowNotification(fmt.Sprintf("Cannot play %s: %v", e.Item.Name, e.Error))
}

func (p *Presenter) onTrackMetadata(event domain.Event) {
	if e, ok := event.(domain.TrackMetadataEvent); ok {
		p.view.ShowTrackMetadata(e.Metadata)
	}
}

func (p *Presenter) onPlayModeChanged(event domain.Event) {
	if e, ok := event.(domain.PlayModeChangedEvent); ok {
		p.view.SetPlayMode(e.Mode)
	}
}

func (p *Presenter) onHistoryChanged(event domain.Event) {
	if e, ok := event.(domain.HistoryChangedEvent); ok {
		p.view.ShowHistory(e.Items)
	}
}

func (p *Presenter) onTimerStatusChanged(event domain.Event) {
	if e, ok := event.(domain.TimerStatusChangedEvent); ok {
		p.view.ShowTimerStatus(e.State)
	}
}

// Commands

// PlayIndex plays the visible item at index.
func (p *Presenter) PlayIndex(index int) {
	p.playback.PlayByIndex(index)
}

// PlayRecent plays a history entry. It reports false when the item is not
// in the visible list.
func (p *Presenter) PlayRecent(key string) bool {
	if p.playback.PlayKey(key) {
		return true
	}
	p.view.ShowNotification("That item is not in the current list")
	return false
}

// TogglePlay plays or pauses the current item.
func (p *Presenter) TogglePlay() {
	if err := p.playback.TogglePlay(); err != nil {
		p.report("toggle play", err)
	}
}

// Stop stops playback and keeps the current item selected.
func (p *Presenter) Stop() {
	if err := p.playback.Stop(); err != nil {
		p.report("stop", err)
	}
}

// CycleMode advances the play mode.
func (p *Presenter) CycleMode() {
	p.playback.CycleMode()
}

// CycleFilter advances the chorus filter.
func (p *Presenter) CycleFilter() {
	if _, err := p.prefs.CycleFilterMode(); err != nil {
		p.report("cycle filter", err)
	}
}

// ToggleOrder flips the list order.
func (p *Presenter) ToggleOrder() {
	if _, err := p.prefs.ToggleReversed(); err != nil {
		p.report("toggle order", err)
	}
}

// Search applies a search term.
func (p *Presenter) Search(query string) {
	if err := p.prefs.SetSearchQuery(query); err != nil {
		p.report("search", err)
	}
}

// NextDirectory switches to the next configured directory.
func (p *Presenter) NextDirectory() {
	p.Load(p.catalog.NextDirectory())
}

// Reload lists the current directory again, or the first configured one
// before anything was loaded.
func (p *Presenter) Reload() {
	p.background("reload", p.catalog.Reload)
}

// Load starts loading dir in the background.
func (p *Presenter) Load(dir string) {
	p.background(dir, func(ctx context.Context) error {
		return p.catalog.Load(ctx, dir)
	})
}

func (p *Presenter) background(what string, load func(ctx context.Context) error) {
	p.mu.Lock()
	if p.ctx.Err() != nil {
		p.mu.Unlock()
		return
	}
	p.loads.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.loads.Done()
		err := load(p.ctx)
		switch {
		case err == nil, errors.Is(err, domain.ErrStaleLoad), errors.Is(err, context.Canceled):
		default:
			// The failure itself reaches the view through CatalogLoadFailedEvent.
			p.logger.Debug("catalog load failed", slog.String("load", what), slog.Any("error", err))
		}
	}()
}

// ResetQuery clears the filter, search and order preferences.
func (p *Presenter) ResetQuery() {
	if err := p.prefs.Reset(); err != nil {
		p.report("reset list", err)
	}
}

// StartTimer schedules a pause after minutes.
func (p *Presenter) StartTimer(minutes int) {
	if err := p.timer.Start(minutes); err != nil {
		p.report("start timer", err)
	}
}

// CancelTimer clears the sleep timer.
func (p *Presenter) CancelTimer() {
	p.timer.Cancel()
}

func (p *Presenter) report(op string, err error) {
	p.logger.Warn("command failed", slog.String("op", op), slog.Any("error", err))
	p.view.ShowNotification(err.Error())
}

// Shutdown unsubscribes from the bus and waits for in-flight loads.
func (p *Presenter) Shutdown() {
	p.shutdownOnce.Do(func() {
		p.mu.Lock()
		p.cancel()
		p.mu.Unlock()
		p.loads.Wait()

		for _, id := range p.subscriptions {
			p.bus.Unsubscribe(id)
		}
		p.logger.Debug("presenter shut down")
	})
}
