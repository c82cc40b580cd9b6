// Package domain defines events for the event-driven architecture.
// Events replace direct presentation mutation and enable loose coupling between components.
package domain

import (
	"time"
)

// Event is the base interface for all events in the system.
// All events must implement this interface to be published via the event bus.
type Event interface {
	// Type returns the event type identifier
	Type() EventType

	// Timestamp returns when the event occurred
	Timestamp() time.Time
}

// EventType is a string identifier for different event types.
type EventType string

// Event type constants define all possible events in the system.
const (
	// Catalog events
	EventCatalogLoading    EventType = "catalog.loading"
	EventCatalogLoaded     EventType = "catalog.loaded"
	EventCatalogLoadFailed EventType = "catalog.load_failed"

	// List events
	EventListQueryChanged   EventType = "list.query_changed"
	EventVisibleListChanged EventType = "list.visible_changed"

	// Playback events
	EventNowPlayingChanged EventType = "track.now_playing"
	EventTrackStarted      EventType = "track.started"
	EventTrackPaused       EventType = "track.paused"
	EventTrackStopped      EventType = "track.stopped"
	EventPlaybackFailed    EventType = "track.playback_failed"
	EventTrackMetadata     EventType = "track.metadata"
	EventPlayModeChanged   EventType = "playmode.changed"
	EventHistoryChanged    EventType = "history.changed"

	// Audio output events, published by output adapters
	EventOutputEnded  EventType = "output.ended"
	EventOutputPaused EventType = "output.paused"
	EventOutputError  EventType = "output.error"

	// Sleep timer events
	EventTimerStatusChanged EventType = "timer.status_changed"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event subscription.
type SubscriptionID string

// baseEvent provides common event functionality.
// All concrete events should embed this struct.
type baseEvent struct {
	timestamp time.Time
}

// Timestamp returns when the event occurred.
func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

// newBaseEvent creates a new base event with the current timestamp.
func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// CatalogLoadingEvent is published when a directory load starts.
// Generation increases with every load; the loaded or failed event of the
// same load carries the same value.
type CatalogLoadingEvent struct {
	baseEvent
	Directory  string
	Generation uint64
}

// Type returns the event type.
func (e CatalogLoadingEvent) Type() EventType {
	return EventCatalogLoading
}

// NewCatalogLoadingEvent creates a new CatalogLoadingEvent.
func NewCatalogLoadingEvent(dir string, generation uint64) CatalogLoadingEvent {
	return CatalogLoadingEvent{
		baseEvent:  newBaseEvent(),
		Directory:  dir,
		Generation: generation,
	}
}

// CatalogLoadedEvent is published when a directory listing replaced the catalog.
type CatalogLoadedEvent struct {
	baseEvent
	Directory  string
	Items      []Item
	Generation uint64
}

// Type returns the event type.
func (e CatalogLoadedEvent) Type() EventType {
	return EventCatalogLoaded
}

// NewCatalogLoadedEvent creates a new CatalogLoadedEvent.
func NewCatalogLoadedEvent(dir string, items []Item, generation uint64) CatalogLoadedEvent {
	return CatalogLoadedEvent{
		baseEvent:  newBaseEvent(),
		Directory:  dir,
		Items:      items,
		Generation: generation,
	}
}

// CatalogLoadFailedEvent is published when a directory listing failed.
// The catalog is empty afterwards.
type CatalogLoadFailedEvent struct {
	baseEvent
	Directory  string
	Error      error
	Generation uint64
}

// Type returns the event type.
func (e CatalogLoadFailedEvent) Type() EventType {
	return EventCatalogLoadFailed
}

// NewCatalogLoadFailedEvent creates a new CatalogLoadFailedEvent.
func NewCatalogLoadFailedEvent(dir string, err error, generation uint64) CatalogLoadFailedEvent {
	return CatalogLoadFailedEvent{
		baseEvent:  newBaseEvent(),
		Directory:  dir,
		Error:      err,
		Generation: generation,
	}
}

// ListQueryChangedEvent is published when filter, search or order changed.
type ListQueryChangedEvent struct {
	baseEvent
	Query ListQuery
}

// Type returns the event type.
func (e ListQueryChangedEvent) Type() EventType {
	return EventListQueryChanged
}

// NewListQueryChangedEvent creates a new ListQueryChangedEvent.
func NewListQueryChangedEvent(q ListQuery) ListQueryChangedEvent {
	return ListQueryChangedEvent{
		baseEvent: newBaseEvent(),
		Query:     q,
	}
}

// VisibleListChangedEvent is published after every visible list recompute.
type VisibleListChangedEvent struct {
	baseEvent
	Items        []Item
	CurrentIndex int
	LoadState    LoadState
	Total        int // catalog size before filtering
}

// Type returns the event type.
func (e VisibleListChangedEvent) Type() EventType {
	return EventVisibleListChanged
}

// NewVisibleListChangedEvent creates a new VisibleListChangedEvent.
func NewVisibleListChangedEvent(items []Item, currentIndex int, state LoadState, total int) VisibleListChangedEvent {
	return VisibleListChangedEvent{
		baseEvent:    newBaseEvent(),
		Items:        items,
		CurrentIndex: currentIndex,
		LoadState:    state,
		Total:        total,
	}
}

// NowPlayingChangedEvent is published when an item becomes current.
type NowPlayingChangedEvent struct {
	baseEvent
	Item  Item
	Index int
}

// Type returns the event type.
func (e NowPlayingChangedEvent) Type() EventType {
	return EventNowPlayingChanged
}

// NewNowPlayingChangedEvent creates a new NowPlayingChangedEvent.
func NewNowPlayingChangedEvent(item Item, index int) NowPlayingChangedEvent {
	return NowPlayingChangedEvent{
		baseEvent: newBaseEvent(),
		Item:      item,
		Index:     index,
	}
}

// TrackStartedEvent is published when playback starts or resumes.
type TrackStartedEvent struct {
	baseEvent
	Item Item
}

// Type returns the event type.
func (e TrackStartedEvent) Type() EventType {
	return EventTrackStarted
}

// NewTrackStartedEvent creates a new TrackStartedEvent.
func NewTrackStartedEvent(item Item) TrackStartedEvent {
	return TrackStartedEvent{
		baseEvent: newBaseEvent(),
		Item:      item,
	}
}

// TrackPausedEvent is published when playback is paused.
type TrackPausedEvent struct {
	baseEvent
	Item Item
}

// Type returns the event type.
func (e TrackPausedEvent) Type() EventType {
	return EventTrackPaused
}

// NewTrackPausedEvent creates a new TrackPausedEvent.
func NewTrackPausedEvent(item Item) TrackPausedEvent {
	return TrackPausedEvent{
		baseEvent: newBaseEvent(),
		Item:      item,
	}
}

// TrackStoppedEvent is published when playback stopped at the end of the list.
type TrackStoppedEvent struct {
	baseEvent
	Item Item
}

// Type returns the event type.
func (e TrackStoppedEvent) Type() EventType {
	return EventTrackStopped
}

// NewTrackStoppedEvent creates a new TrackStoppedEvent.
func NewTrackStoppedEvent(item Item) TrackStoppedEvent {
	return TrackStoppedEvent{
		baseEvent: newBaseEvent(),
		Item:      item,
	}
}

// PlaybackFailedEvent is published when the audio output rejected a play request.
type PlaybackFailedEvent struct {
	baseEvent
	Item  Item
	Error error
}

// Type returns the event type.
func (e PlaybackFailedEvent) Type() EventType {
	return EventPlaybackFailed
}

// NewPlaybackFailedEvent creates a new PlaybackFailedEvent.
func NewPlaybackFailedEvent(item Item, err error) PlaybackFailedEvent {
	return PlaybackFailedEvent{
		baseEvent: newBaseEvent(),
		Item:      item,
		Error:     err,
	}
}

// TrackMetadataEvent carries tags read from the playing blob.
type TrackMetadataEvent struct {
	baseEvent
	Source   string
	Metadata TrackMetadata
}

// Type returns the event type.
func (e TrackMetadataEvent) Type() EventType {
	return EventTrackMetadata
}

// NewTrackMetadataEvent creates a new TrackMetadataEvent.
func NewTrackMetadataEvent(source string, md TrackMetadata) TrackMetadataEvent {
	return TrackMetadataEvent{
		baseEvent: newBaseEvent(),
		Source:    source,
		Metadata:  md,
	}
}

// PlayModeChangedEvent is published when the play mode cycles.
type PlayModeChangedEvent struct {
	baseEvent
	Mode PlayMode
}

// Type returns the event type.
func (e PlayModeChangedEvent) Type() EventType {
	return EventPlayModeChanged
}

// NewPlayModeChangedEvent creates a new PlayModeChangedEvent.
func NewPlayModeChangedEvent(mode PlayMode) PlayModeChangedEvent {
	return PlayModeChangedEvent{
		baseEvent: newBaseEvent(),
		Mode:      mode,
	}
}

// HistoryChangedEvent is published when an item is pushed into the history.
type HistoryChangedEvent struct {
	baseEvent
	Items []Item
}

// Type returns the event type.
func (e HistoryChangedEvent) Type() EventType {
	return EventHistoryChanged
}

// NewHistoryChangedEvent creates a new HistoryChangedEvent.
func NewHistoryChangedEvent(items []Item) HistoryChangedEvent {
	return HistoryChangedEvent{
		baseEvent: newBaseEvent(),
		Items:     items,
	}
}

// OutputEndedEvent is published by an audio output when a source finished naturally.
type OutputEndedEvent struct {
	baseEvent
	Source string
}

// Type returns the event type.
func (e OutputEndedEvent) Type() EventType {
	return EventOutputEnded
}

// NewOutputEndedEvent creates a new OutputEndedEvent.
func NewOutputEndedEvent(source string) OutputEndedEvent {
	return OutputEndedEvent{
		baseEvent: newBaseEvent(),
		Source:    source,
	}
}

// OutputPausedEvent is published when the output paused on its own
// (device or media-key pause).
type OutputPausedEvent struct {
	baseEvent
	Source string
}

// Type returns the event type.
func (e OutputPausedEvent) Type() EventType {
	return EventOutputPaused
}

// NewOutputPausedEvent creates a new OutputPausedEvent.
func NewOutputPausedEvent(source string) OutputPausedEvent {
	return OutputPausedEvent{
		baseEvent: newBaseEvent(),
		Source:    source,
	}
}

// OutputErrorEvent is published when an asynchronous fetch or decode failed.
type OutputErrorEvent struct {
	baseEvent
	Source string
	Error  error
}

// Type returns the event type.
func (e OutputErrorEvent) Type() EventType {
	return EventOutputError
}

// NewOutputErrorEvent creates a new OutputErrorEvent.
func NewOutputErrorEvent(source string, err error) OutputErrorEvent {
	return OutputErrorEvent{
		baseEvent: newBaseEvent(),
		Source:    source,
		Error:     err,
	}
}

// TimerStatusChangedEvent is published whenever the sleep timer starts, fires or is cancelled.
type TimerStatusChangedEvent struct {
	baseEvent
	State SleepTimerState
}

// Type returns the event type.
func (e TimerStatusChangedEvent) Type() EventType {
	return EventTimerStatusChanged
}

// NewTimerStatusChangedEvent creates a new TimerStatusChangedEvent.
func NewTimerStatusChangedEvent(state SleepTimerState) TimerStatusChangedEvent {
	return TimerStatusChangedEvent{
		baseEvent: newBaseEvent(),
		State:     state,
	}
}
