// Package ports define interfaces for dependency inversion.
// These interfaces allow the core business logic to remain independent of external frameworks.
package ports

import (
	"context"
)

// AudioOutput is the playback primitive the controller drives.
// It plays one source at a time; starting a new source replaces the current one.
//
// Implementations report what happens after Play returns through the event bus:
// domain.OutputEndedEvent when a source finishes naturally, domain.OutputPausedEvent
// for a pause the controller did not request, and domain.OutputErrorEvent for
// asynchronous fetch or decode failures. Every one of them carries the source URL
// so stale notifications can be told apart. Resuming always goes through Resume.
//
// Implementations must be thread-safe as they may be called from multiple goroutines.
type AudioOutput interface {
	// Play requests playback of the source URL from the beginning.
	// It may return before audio is audible. Returns an error if the request
	// was rejected outright.
	Play(ctx context.Context, source string) error

	// Pause pauses the current source, keeping its position.
	// Pausing with nothing loaded is a no-op.
	Pause() error

	// Resume continues a paused source. Resuming with nothing loaded is a no-op.
	Resume() error

	// Stop stops and releases the current source.
	Stop() error

	// Close releases the output device. The output cannot be used afterwards.
	Close() error
}

// SourceLocator maps an item key to the URL the audio output should play.
type SourceLocator interface {
	SourceURL(key string) string
}
