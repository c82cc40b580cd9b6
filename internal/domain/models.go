// Package domain contains core business models and logic with no external dependencies.
// This package defines the fundamental entities of the gopraise player.
package domain

import (
	"io"
	"path"
	"strings"
	"time"
)

// Item is a single playable entry of a catalog directory.
// Items are immutable once constructed.
type Item struct {
	// Name is the bare file name as returned by the directory listing
	Name string

	// Key is the full storage path (directory + name)
	Key string
}

// NewItem builds an Item for a name listed under dir.
func NewItem(dir, name string) Item {
	return Item{Name: name, Key: dir + name}
}

// DisplayName returns the label shown for the item while it plays,
// "(<directory>)<name>" with the .mp3 extension removed.
func (i Item) DisplayName() string {
	title := i.Name
	if strings.EqualFold(path.Ext(title), ".mp3") {
		title = title[:len(title)-len(".mp3")]
	}

	dir := strings.TrimSuffix(strings.TrimSuffix(i.Key, i.Name), "/")
	if dir == "" {
		return title
	}
	return "(" + path.Base(dir) + ")" + title
}

// IsZero reports whether the item is the zero value.
func (i Item) IsZero() bool {
	return i.Key == ""
}

// FilterMode selects which catalog items pass the chorus filter.
// The string values are the persisted representation.
type FilterMode string

const (
	// FilterAll passes every item
	FilterAll FilterMode = "all"

	// FilterOnlyChorus keeps only chorus items
	FilterOnlyChorus FilterMode = "only_chorus"

	// FilterExcludeChorus drops chorus items
	FilterExcludeChorus FilterMode = "exclude_chorus"
)

// ParseFilterMode converts a persisted value into a FilterMode.
func ParseFilterMode(s string) (FilterMode, error) {
	switch m := FilterMode(s); m {
	case FilterAll, FilterOnlyChorus, FilterExcludeChorus:
		return m, nil
	default:
		return FilterAll, NewValidationError("filter_mode", s, ErrInvalidFilterMode.Error())
	}
}

// Next returns the filter mode that follows m in the UI cycle.
func (m FilterMode) Next() FilterMode {
	switch m {
	case FilterAll:
		return FilterOnlyChorus
	case FilterOnlyChorus:
		return FilterExcludeChorus
	default:
		return FilterAll
	}
}

// Label returns a short human-readable name.
func (m FilterMode) Label() string {
	switch m {
	case FilterOnlyChorus:
		return "Chorus only"
	case FilterExcludeChorus:
		return "No chorus"
	default:
		return "All"
	}
}

// PlayMode governs auto-advance on natural end of an item.
type PlayMode int

const (
	// PlayModeSequential plays the next visible item and stops at the end
	PlayModeSequential PlayMode = iota

	// PlayModeRepeatOne replays the current item
	PlayModeRepeatOne

	// PlayModeShuffle picks a random other visible item
	PlayModeShuffle
)

// Next returns the play mode that follows m in the cycle.
func (m PlayMode) Next() PlayMode {
	switch m {
	case PlayModeSequential:
		return PlayModeRepeatOne
	case PlayModeRepeatOne:
		return PlayModeShuffle
	default:
		return PlayModeSequential
	}
}

// String returns a human-readable representation of the play mode.
func (m PlayMode) String() string {
	switch m {
	case PlayModeSequential:
		return "Sequential"
	case PlayModeRepeatOne:
		return "Repeat one"
	case PlayModeShuffle:
		return "Shuffle"
	default:
		return "unknown"
	}
}

// PlaybackStatus represents the current playback state.
type PlaybackStatus int

const (
	// StatusIdle indicates that no item has been selected yet
	StatusIdle PlaybackStatus = iota

	// StatusLoaded indicates an item is current but not playing
	StatusLoaded

	// StatusPlaying indicates playback is active
	StatusPlaying

	// StatusPaused indicates playback is paused
	StatusPaused
)

// String returns a human-readable representation of the playback status.
func (s PlaybackStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoaded:
		return "loaded"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	default:
		return "unknown"
	}
}

// LoadState tells an empty directory apart from one that failed to load.
type LoadState int

const (
	LoadIdle LoadState = iota
	LoadLoading
	LoadReady
	LoadFailed
)

// String returns a human-readable representation of the load state.
func (s LoadState) String() string {
	switch s {
	case LoadIdle:
		return "idle"
	case LoadLoading:
		return "loading"
	case LoadReady:
		return "ready"
	case LoadFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ListQuery holds the persisted inputs of the visible-list pipeline.
type ListQuery struct {
	Filter   FilterMode
	Search   string
	Reversed bool
}

// DefaultListQuery returns the query used when nothing was persisted.
func DefaultListQuery() ListQuery {
	return ListQuery{Filter: FilterAll}
}

// Cursor is the current item's stable key plus its position in the visible list.
// Index is -1 when the item is not part of the visible list.
type Cursor struct {
	Key   string
	Index int
}

// NoCursor is the cursor before anything was played.
var NoCursor = Cursor{Index: -1}

// HasKey reports whether an item is current.
func (c Cursor) HasKey() bool {
	return c.Key != ""
}

// SleepTimerOptions are the durations, in minutes, offered to the user.
var SleepTimerOptions = []int{5, 10, 15, 30, 45, 60, 90}

// SleepTimerState describes the single sleep timer.
type SleepTimerState struct {
	// Active is true while a stop is pending
	Active bool

	// Minutes is the duration option the timer was started with
	Minutes int

	// Deadline is when playback will be paused
	Deadline time.Time

	// Status is the message shown to the user
	Status string
}

// Remaining returns the time left before the timer fires.
func (s SleepTimerState) Remaining(now time.Time) time.Duration {
	if !s.Active || now.After(s.Deadline) {
		return 0
	}
	return s.Deadline.Sub(now)
}

// PlaybackState is a snapshot of the playback controller.
type PlaybackState struct {
	// Cursor is the current item position
	Cursor Cursor

	// NowPlaying is the current item (zero if none)
	NowPlaying Item

	// Status is the current playback status
	Status PlaybackStatus

	// Mode is the active play mode
	Mode PlayMode

	// Directory is the catalog directory the visible list was built from
	Directory string

	// LoadState is the state of the last catalog load
	LoadState LoadState

	// Visible is the filtered, searched and ordered list
	Visible []Item

	// CatalogSize is the number of items before filtering
	CatalogSize int
}

// TrackMetadata holds tags read from an audio blob.
type TrackMetadata struct {
	Title  string
	Artist string
	Album  string
	Year   int
}

// ObjectInfo describes an object in the backing store.
type ObjectInfo struct {
	Key         string
	Size        int64
	ContentType string
}

// Blob is fetched object content. The caller must close Body.
type Blob struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// Book is an entry of the scripture index.
type Book struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	File     string `json:"file"`
	Chapters int    `json:"chapters"`
}
