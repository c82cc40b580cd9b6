// Package ports define the View interface for presentation abstraction.
// This interface allows the presenter to update the screen without depending on a UI toolkit.
package ports

import (
	"github.com/tejashwikalptaru/gopraise/internal/domain"
)

// View is the output surface of the presentation layer.
//
// The presenter receives events from the event bus and calls these methods.
// Implementations must not call back into services from these methods; they
// only record what to render.
//
// Thread-safety: methods may be called from any goroutine that publishes events.
type View interface {
	// ShowVisibleList replaces the rendered rows.
	// currentIndex is -1 when the current item is not visible.
	// state distinguishes an empty directory from a failed load.
	ShowVisibleList(items []domain.Item, currentIndex int, state domain.LoadState, total int)

	// ShowLoading marks dir as loading.
	ShowLoading(dir string)

	// ShowNowPlaying reveals the now-playing surface for item.
	ShowNowPlaying(item domain.Item, index int)

	// ShowTrackMetadata shows tags read from the playing item.
	ShowTrackMetadata(md domain.TrackMetadata)

	// SetPlaybackStatus updates the play/pause indicator.
	SetPlaybackStatus(status domain.PlaybackStatus)

	// SetPlayMode updates the play mode indicator.
	SetPlayMode(mode domain.PlayMode)

	// SetListQuery reflects the current filter, search and order.
	SetListQuery(q domain.ListQuery)

	// ShowHistory replaces the recently played list.
	ShowHistory(items []domain.Item)

	// ShowTimerStatus updates the sleep timer status line and active option.
	ShowTimerStatus(state domain.SleepTimerState)

	// ShowNotification displays a transient message.
	ShowNotification(message string)
}
