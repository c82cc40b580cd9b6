package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/gopraise/internal/adapter/audio/mock"
	"github.com/tejashwikalptaru/gopraise/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/gopraise/internal/domain"
	"github.com/tejashwikalptaru/gopraise/internal/logger"
	"github.com/tejashwikalptaru/gopraise/internal/testutil"
)

func TestPlaybackService_InitialState(t *testing.T) {
	env := newTestEnv(PlaybackOptions{})
	defer env.close()

	state := env.playback.GetState()
	assert.Equal(t, domain.StatusIdle, state.Status)
	assert.Equal(t, domain.NoCursor, state.Cursor)
	assert.Equal(t, domain.PlayModeSequential, state.Mode)
	assert.Empty(t, state.Visible)
	assert.ErrorIs(t, env.playback.Play(), domain.ErrNoItemLoaded)
}

func TestPlaybackService_CatalogLoadRecomputes(t *testing.T) {
	env := newTestEnv(PlaybackOptions{})
	defer env.close()

	env.load("a.mp3", "b-合.mp3", "c.mp3")

	assert.Equal(t, []string{"praise/a.mp3", "praise/b-合.mp3", "praise/c.mp3"}, keys(env.playback.VisibleList()))

	ev, ok := env.events.last(domain.EventVisibleListChanged).(domain.VisibleListChangedEvent)
	require.True(t, ok)
	assert.Equal(t, domain.LoadReady, ev.LoadState)
	assert.Equal(t, 3, ev.Total)
	assert.Equal(t, -1, ev.CurrentIndex)
}

func TestPlaybackService_PlayByIndex(t *testing.T) {
	env := newTestEnv(PlaybackOptions{})
	defer env.close()
	env.load("a.mp3", "b.mp3")

	env.playback.PlayByIndex(1)

	assert.Equal(t, domain.Cursor{Key: "praise/b.mp3", Index: 1}, env.playback.Cursor())
	assert.Equal(t, domain.StatusPlaying, env.playback.Status())
	assert.Equal(t, []string{"mem://praise/b.mp3"}, env.output.Plays())
	assert.Equal(t, []string{"praise/b.mp3"}, keys(env.playback.History()))

	np, ok := env.events.last(domain.EventNowPlayingChanged).(domain.NowPlayingChangedEvent)
	require.True(t, ok)
	assert.Equal(t, "praise/b.mp3", np.Item.Key)
	assert.Len(t, env.events.ofType(domain.EventTrackStarted), 1)
}

func TestPlaybackService_PlayByIndexOutOfRangeIsNoop(t *testing.T) {
	env := newTestEnv(PlaybackOptions{})
	defer env.close()
	env.load("a.mp3")

	env.playback.PlayByIndex(-1)
	env.playback.PlayByIndex(1)

	assert.Equal(t, 0, env.output.PlayCount())
	assert.Equal(t, domain.StatusIdle, env.playback.Status())
	assert.Empty(t, env.playback.History())
}

func TestPlaybackService_FailedPlayStaysNavigable(t *testing.T) {
	env := newTestEnv(PlaybackOptions{})
	defer env.close()
	env.load("a.mp3", "b.mp3")

	env.output.SetFailPlay(true)
	assert.NotPanics(t, func() { env.playback.PlayByIndex(0) })

	assert.Equal(t, domain.Cursor{Key: "praise/a.mp3", Index: 0}, env.playback.Cursor())
	assert.Equal(t, domain.StatusLoaded, env.playback.Status())
	assert.Equal(t, []string{"praise/a.mp3"}, keys(env.playback.History()))

	failed, ok := env.events.last(domain.EventPlaybackFailed).(domain.PlaybackFailedEvent)
	require.True(t, ok)
	assert.ErrorIs(t, failed.Error, domain.ErrPlaybackFailed)

	env.output.SetFailPlay(false)
	env.playback.PlayByIndex(1)

	assert.Equal(t, domain.StatusPlaying, env.playback.Status())
	assert.Equal(t, []string{"mem://praise/b.mp3"}, env.output.Plays())
}

func TestPlaybackService_HistoryDedupAndCap(t *testing.T) {
	env := newTestEnv(PlaybackOptions{})
	defer env.close()

	names := make([]string, 0, 11)
	for i := 1; i <= 11; i++ {
		names = append(names, fmt.Sprintf("k%02d.mp3", i))
	}
	env.load(names...)

	order := []int{0, 1, 0, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	for _, i := range order {
		env.playback.PlayByIndex(i)
	}

	history := keys(env.playback.History())
	require.Len(t, history, domain.HistoryCapacity)
	assert.Equal(t, "praise/k11.mp3", history[0])
	assert.Equal(t, "praise/k01.mp3", history[9])
	assert.NotContains(t, history, "praise/k02.mp3")
}

func TestPlaybackService_CursorReResolution(t *testing.T) {
	env := newTestEnv(PlaybackOptions{})
	defer env.close()
	env.load("a.mp3", "b.mp3", "x-合.mp3", "d.mp3")

	env.playback.PlayByIndex(2)
	require.Equal(t, 2, env.playback.Cursor().Index)

	require.NoError(t, env.pref.SetFilterMode(domain.FilterExcludeChorus))
	assert.Equal(t, domain.Cursor{Key: "praise/x-合.mp3", Index: -1}, env.playback.Cursor())
	assert.Equal(t, "praise/x-合.mp3", env.playback.NowPlaying().Key)

	require.NoError(t, env.pref.SetFilterMode(domain.FilterAll))
	require.NoError(t, env.pref.SetReversed(true))
	assert.Equal(t, 1, env.playback.Cursor().Index)

	ev, ok := env.events.last(domain.EventVisibleListChanged).(domain.VisibleListChangedEvent)
	require.True(t, ok)
	assert.Equal(t, 1, ev.CurrentIndex)
}

func TestPlaybackService_SequentialAdvance(t *testing.T) {
	env := newTestEnv(PlaybackOptions{})
	defer env.close()
	env.load("a.mp3", "b.mp3", "c.mp3")

	env.playback.PlayByIndex(1)
	env.output.SimulateEnd()

	assert.Equal(t, 2, env.playback.Cursor().Index)
	assert.Equal(t, []string{"mem://praise/b.mp3", "mem://praise/c.mp3"}, env.output.Plays())
}

func TestPlaybackService_SequentialStopsAtEnd(t *testing.T) {
	env := newTestEnv(PlaybackOptions{})
	defer env.close()
	env.load("a.mp3", "b.mp3", "c.mp3")

	env.playback.PlayByIndex(2)
	env.playback.AdvanceOnEnd()

	assert.Equal(t, 1, env.output.PlayCount())
	assert.Equal(t, domain.StatusLoaded, env.playback.Status())
	assert.Equal(t, 2, env.playback.Cursor().Index)
	assert.Len(t, env.events.ofType(domain.EventTrackStopped), 1)
}

func TestPlaybackService_SequentialFilteredOutStops(t *testing.T) {
	env := newTestEnv(PlaybackOptions{})
	defer env.close()
	env.load("a.mp3", "b-合.mp3", "c.mp3")

	env.playback.PlayByIndex(1)
	require.NoError(t, env.pref.SetFilterMode(domain.FilterExcludeChorus))
	env.playback.AdvanceOnEnd()

	assert.Equal(t, 1, env.output.PlayCount())
}

func TestPlaybackService_RepeatOne(t *testing.T) {
	env := newTestEnv(PlaybackOptions{})
	defer env.close()
	env.load("a.mp3", "b.mp3")

	env.setMode(domain.PlayModeRepeatOne)
	env.playback.PlayByIndex(0)
	env.output.SimulateEnd()

	assert.Equal(t, []string{"mem://praise/a.mp3", "mem://praise/a.mp3"}, env.output.Plays())
	assert.Equal(t, 0, env.playback.Cursor().Index)
	assert.Equal(t, 1, len(env.playback.History()))
}

func TestPlaybackService_RepeatOneFilteredOutStops(t *testing.T) {
	env := newTestEnv(PlaybackOptions{})
	defer env.close()
	env.load("a.mp3", "b.mp3")

	env.setMode(domain.PlayModeRepeatOne)
	env.playback.PlayByIndex(1)
	require.NoError(t, env.pref.SetSearchQuery("a.mp3"))
	env.playback.AdvanceOnEnd()

	assert.Equal(t, []string{"mem://praise/b.mp3"}, env.output.Plays())
	assert.Equal(t, domain.StatusLoaded, env.playback.Status())
	assert.Equal(t, "praise/b.mp3", env.playback.Cursor().Key)
	assert.Equal(t, -1, env.playback.Cursor().Index)
}

func TestPlaybackService_ShuffleNeverRepeatsCurrent(t *testing.T) {
	draws := []int{0, 1, 2}
	next := 0
	env := newTestEnv(PlaybackOptions{RandomIntN: func(n int) int {
		d := draws[next%len(draws)] % n
		next++
		return d
	}})
	defer env.close()
	env.load("a.mp3", "b.mp3", "c.mp3", "d.mp3")

	env.setMode(domain.PlayModeShuffle)
	env.playback.PlayByIndex(1)

	for i := 0; i < 6; i++ {
		before := env.playback.Cursor().Index
		env.playback.AdvanceOnEnd()
		assert.NotEqual(t, before, env.playback.Cursor().Index)
	}
}

func TestPlaybackService_ShuffleCoversAllOthers(t *testing.T) {
	env := newTestEnv(PlaybackOptions{RandomIntN: func(n int) int { return n - 1 }})
	defer env.close()
	env.load("a.mp3", "b.mp3", "c.mp3")

	env.setMode(domain.PlayModeShuffle)
	env.playback.PlayByIndex(2)
	env.playback.AdvanceOnEnd()

	// The highest draw excluding index 2 lands on 1.
	assert.Equal(t, 1, env.playback.Cursor().Index)
}

func TestPlaybackService_ShuffleSingleItemReplays(t *testing.T) {
	env := newTestEnv(PlaybackOptions{})
	defer env.close()
	env.load("only.mp3")

	env.setMode(domain.PlayModeShuffle)
	env.playback.PlayByIndex(0)
	env.playback.AdvanceOnEnd()

	assert.Equal(t, []string{"mem://praise/only.mp3", "mem://praise/only.mp3"}, env.output.Plays())
}

func TestPlaybackService_AdvanceOnEmptyListIsNoop(t *testing.T) {
	env := newTestEnv(PlaybackOptions{})
	defer env.close()
	env.load("a.mp3")

	env.playback.PlayByIndex(0)
	require.NoError(t, env.pref.SetSearchQuery("zzz"))

	for _, mode := range []domain.PlayMode{domain.PlayModeSequential, domain.PlayModeShuffle} {
		env.setMode(mode)
		env.playback.AdvanceOnEnd()
	}

	assert.Equal(t, 1, env.output.PlayCount())
}

func TestPlaybackService_StaleEndIgnored(t *testing.T) {
	env := newTestEnv(PlaybackOptions{})
	defer env.close()
	env.load("a.mp3", "b.mp3", "c.mp3")

	env.playback.PlayByIndex(0)
	env.bus.Publish(domain.NewOutputEndedEvent("mem://praise/zzz.mp3"))

	assert.Equal(t, 1, env.output.PlayCount())
}

func TestPlaybackService_PauseResumeToggle(t *testing.T) {
	env := newTestEnv(PlaybackOptions{})
	defer env.close()
	env.load("a.mp3")

	env.playback.PlayByIndex(0)

	require.NoError(t, env.playback.TogglePlay())
	assert.Equal(t, domain.StatusPaused, env.playback.Status())
	assert.True(t, env.output.IsPaused())

	require.NoError(t, env.playback.TogglePlay())
	assert.Equal(t, domain.StatusPlaying, env.playback.Status())
	assert.Equal(t, 1, env.output.Resumes())

	require.NoError(t, env.playback.Pause())
	require.NoError(t, env.playback.Pause())
	assert.Len(t, env.events.ofType(domain.EventTrackPaused), 2)
}

func TestPlaybackService_PlayAfterEndRestarts(t *testing.T) {
	env := newTestEnv(PlaybackOptions{})
	defer env.close()
	env.load("a.mp3")

	env.playback.PlayByIndex(0)
	env.playback.AdvanceOnEnd()
	require.Equal(t, domain.StatusLoaded, env.playback.Status())

	require.NoError(t, env.playback.Play())

	assert.Equal(t, domain.StatusPlaying, env.playback.Status())
	assert.Equal(t, 2, env.output.PlayCount())
}

func TestPlaybackService_ExternalPause(t *testing.T) {
	env := newTestEnv(PlaybackOptions{})
	defer env.close()
	env.load("a.mp3")

	env.playback.PlayByIndex(0)
	env.output.SimulateExternalPause()

	assert.Equal(t, domain.StatusPaused, env.playback.Status())

	require.NoError(t, env.playback.Play())
	assert.Equal(t, domain.StatusPlaying, env.playback.Status())
	assert.Equal(t, 1, env.output.Resumes())
	assert.Equal(t, 1, env.output.PlayCount())
}

func TestPlaybackService_AsyncOutputError(t *testing.T) {
	env := newTestEnv(PlaybackOptions{})
	defer env.close()
	env.load("a.mp3")

	env.playback.PlayByIndex(0)
	env.bus.Publish(domain.NewOutputErrorEvent("mem://praise/a.mp3", domain.ErrObjectNotFound))

	assert.Equal(t, domain.StatusLoaded, env.playback.Status())
	assert.Len(t, env.events.ofType(domain.EventPlaybackFailed), 1)
}

func TestPlaybackService_CycleMode(t *testing.T) {
	env := newTestEnv(PlaybackOptions{})
	defer env.close()

	assert.Equal(t, domain.PlayModeRepeatOne, env.playback.CycleMode())
	assert.Equal(t, domain.PlayModeShuffle, env.playback.CycleMode())
	assert.Equal(t, domain.PlayModeSequential, env.playback.CycleMode())
	assert.Len(t, env.events.ofType(domain.EventPlayModeChanged), 3)
}

func TestPlaybackService_PlayKeyOnlyVisible(t *testing.T) {
	env := newTestEnv(PlaybackOptions{})
	defer env.close()
	env.load("a.mp3", "b-合.mp3")

	env.playback.PlayByIndex(1)
	require.NoError(t, env.pref.SetFilterMode(domain.FilterExcludeChorus))

	assert.False(t, env.playback.PlayKey("praise/b-合.mp3"))
	assert.True(t, env.playback.PlayKey("praise/a.mp3"))
	assert.Equal(t, 2, env.output.PlayCount())
}

func TestPlaybackService_LoadFailureShowsFailedState(t *testing.T) {
	env := newTestEnv(PlaybackOptions{})
	defer env.close()
	env.load("a.mp3")

	env.lister.fail("praise/", fmt.Errorf("status 500"))
	require.Error(t, env.catalog.Reload(t.Context()))

	state := env.playback.GetState()
	assert.Equal(t, domain.LoadFailed, state.LoadState)
	assert.Empty(t, state.Visible)

	ev, ok := env.events.last(domain.EventVisibleListChanged).(domain.VisibleListChangedEvent)
	require.True(t, ok)
	assert.Equal(t, domain.LoadFailed, ev.LoadState)
}

func TestPlaybackService_EmptyDirectoryIsReady(t *testing.T) {
	env := newTestEnv(PlaybackOptions{})
	defer env.close()

	env.load()

	state := env.playback.GetState()
	assert.Equal(t, domain.LoadReady, state.LoadState)
	assert.Empty(t, state.Visible)
}

func TestPlaybackService_ShutdownUnsubscribes(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	env := newTestEnv(PlaybackOptions{})
	env.load("a.mp3")
	before := env.bus.SubscriberCount()

	require.NoError(t, env.playback.Shutdown())
	require.NoError(t, env.playback.Shutdown())

	assert.Equal(t, before-8, env.bus.SubscriberCount())
	env.playback.PlayByIndex(0)
	assert.Equal(t, 0, env.output.PlayCount())
	assert.ErrorIs(t, env.playback.Play(), domain.ErrServiceClosed)

	_ = env.bus.Close()
}

func TestPlaybackService_LateCatalogResultIgnored(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	log := logger.NewTestLogger()
	bus := eventbus.NewSyncEventBus()
	defer bus.Close()
	lister := newFakeLister()
	lister.set("a/", "old.mp3")
	lister.set("b/", "new.mp3")
	catalog := NewCatalogService(log, lister, bus, []string{"a/", "b/"})

	// Registered before the playback service, so it holds the "a/" result
	// back from it while "b/" loads.
	held := make(chan struct{})
	release := make(chan struct{})
	bus.Subscribe(domain.EventCatalogLoaded, func(e domain.Event) {
		if e.(domain.CatalogLoadedEvent).Directory == "a/" {
			close(held)
			<-release
		}
	})

	playback := NewPlaybackService(log, mock.NewOutput(bus), fakeLocator{}, bus, PlaybackOptions{})
	defer playback.Shutdown()

	ctx := context.Background()
	loadA := make(chan error, 1)
	go func() { loadA <- catalog.Load(ctx, "a/") }()
	<-held

	require.NoError(t, catalog.Load(ctx, "b/"))
	assert.Equal(t, "b/", playback.GetState().Directory)

	close(release)
	require.NoError(t, <-loadA)

	assert.Equal(t, "b/", catalog.Directory())
	state := playback.GetState()
	assert.Equal(t, "b/", state.Directory)
	assert.Equal(t, domain.LoadReady, state.LoadState)
	assert.Equal(t, []string{"b/new.mp3"}, keys(state.Visible))
}

func TestPlaybackService_CatalogEventsCarryGeneration(t *testing.T) {
	env := newTestEnv(PlaybackOptions{})
	defer env.close()

	env.load("a.mp3")
	env.load("b.mp3")

	loading := env.events.ofType(domain.EventCatalogLoading)
	loaded := env.events.ofType(domain.EventCatalogLoaded)
	require.Len(t, loading, 2)
	require.Len(t, loaded, 2)
	assert.Equal(t, uint64(1), loading[0].(domain.CatalogLoadingEvent).Generation)
	assert.Equal(t, uint64(2), loaded[1].(domain.CatalogLoadedEvent).Generation)
	assert.Equal(t, []string{"praise/b.mp3"}, keys(env.playback.VisibleList()))
}
