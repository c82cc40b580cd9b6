package tui

import "github.com/tejashwikalptaru/gopraise/internal/domain"

// Messages carried from ProgramView into the bubbletea event loop.

type visibleListMsg struct {
	items   []domain.Item
	current int
	state   domain.LoadState
	total   int
}

type loadingMsg struct{ dir string }

type nowPlayingMsg struct {
	item  domain.Item
	index int
}

type metadataMsg struct{ md domain.TrackMetadata }

type statusMsg struct{ status domain.PlaybackStatus }

type modeMsg struct{ mode domain.PlayMode }

type queryMsg struct{ query domain.ListQuery }

type historyMsg struct{ items []domain.Item }

type timerMsg struct{ state domain.SleepTimerState }

type notificationMsg struct{ text string }

// clearNotificationMsg hides the notification with the given sequence number.
type clearNotificationMsg struct{ seq int }

// clockTickMsg refreshes the sleep timer countdown.
type clockTickMsg struct{}
