package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/gopraise/internal/adapter/audio/mock"
	"github.com/tejashwikalptaru/gopraise/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/gopraise/internal/adapter/repository"
	"github.com/tejashwikalptaru/gopraise/internal/domain"
	"github.com/tejashwikalptaru/gopraise/internal/logger"
	"github.com/tejashwikalptaru/gopraise/internal/service"
	"github.com/tejashwikalptaru/gopraise/internal/testutil"
)

type mapLister struct {
	mu      sync.Mutex
	listing map[string][]string
	err     error
}

func (l *mapLister) List(_ context.Context, dir string) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	return append([]string(nil), l.listing[dir]...), nil
}

type mapStore struct {
	mu sync.Mutex
	m  map[string]string
}

func (s *mapStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *mapStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *mapStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

type locator struct{}

func (locator) SourceURL(key string) string { return "mem://" + key }

// fakeView records the latest value of every view call.
type fakeView struct {
	mu            sync.Mutex
	items         []domain.Item
	current       int
	state         domain.LoadState
	total         int
	loading       []string
	nowPlaying    domain.Item
	status        domain.PlaybackStatus
	mode          domain.PlayMode
	query         domain.ListQuery
	history       []domain.Item
	timer         domain.SleepTimerState
	metadata      domain.TrackMetadata
	notifications []string
}

func (v *fakeView) ShowVisibleList(items []domain.Item, current int, state domain.LoadState, total int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.items, v.current, v.state, v.total = items, current, state, total
}

func (v *fakeView) ShowLoading(dir string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = append(v.loading, dir)
}

func (v *fakeView) ShowNowPlaying(item domain.Item, _ int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nowPlaying = item
}

func (v *fakeView) ShowTrackMetadata(md domain.TrackMetadata) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.metadata = md
}

func (v *fakeView) SetPlaybackStatus(status domain.PlaybackStatus) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status = status
}

func (v *fakeView) SetPlayMode(mode domain.PlayMode) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.mode = mode
}

func (v *fakeView) SetListQuery(q domain.ListQuery) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.query = q
}

func (v *fakeView) ShowHistory(items []domain.Item) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.history = items
}

func (v *fakeView) ShowTimerStatus(state domain.SleepTimerState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.timer = state
}

func (v *fakeView) ShowNotification(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.notifications = append(v.notifications, message)
}

type presenterEnv struct {
	bus       *eventbus.SyncEventBus
	output    *mock.Output
	lister    *mapLister
	clock     *testutil.FakeScheduler
	view      *fakeView
	store     *mapStore
	prefs     *service.PreferenceService
	playback  *service.PlaybackService
	timer     *service.SleepTimerService
	presenter *Presenter
}

func newPresenterEnv(t *testing.T) *presenterEnv {
	t.Helper()
	log := logger.NewTestLogger()
	bus := eventbus.NewSyncEventBus()
	env := &presenterEnv{
		bus:    bus,
		output: mock.NewOutput(bus),
		lister: &mapLister{listing: map[string][]string{
			"praise/附录/": {"奇异恩典.mp3", "主祷文-合.mp3", "你真伟大.mp3"},
			"praise/新歌/": {"新歌.mp3"},
		}},
		clock: testutil.NewFakeScheduler(time.Date(2026, 1, 1, 20, 0, 0, 0, time.UTC)),
		view:  &fakeView{},
		store: &mapStore{m: map[string]string{}},
	}

	prefs := service.NewPreferenceService(log, repository.NewPreferencesRepository(env.store), bus)
	env.prefs = prefs
	catalog := service.NewCatalogService(log, env.lister, bus, []string{"praise/附录/", "praise/新歌/"})
	env.playback = service.NewPlaybackService(log, env.output, locator{}, bus, service.PlaybackOptions{
		InitialQuery: prefs.Query(),
	})
	env.timer = service.NewSleepTimerService(log, env.clock, env.playback, bus)
	env.presenter = NewPresenter(log, env.playback, catalog, prefs, env.timer, bus, env.view)

	t.Cleanup(func() {
		env.presenter.Shutdown()
		env.timer.Shutdown()
		_ = env.playback.Shutdown()
		_ = bus.Close()
	})
	return env
}

// reload loads the active directory and waits for it to finish.
func (e *presenterEnv) reload() {
	e.presenter.Reload()
	e.presenter.loads.Wait()
}

func TestPresenter_InitialSync(t *testing.T) {
	env := newPresenterEnv(t)

	assert.Equal(t, domain.LoadIdle, env.view.state)
	assert.Equal(t, domain.StatusIdle, env.view.status)
	assert.Equal(t, domain.FilterAll, env.view.query.Filter)
	assert.False(t, env.view.timer.Active)
}

func TestPresenter_LoadAndPlay(t *testing.T) {
	env := newPresenterEnv(t)

	env.reload()
	assert.Equal(t, []string{"praise/附录/"}, env.view.loading)
	assert.Equal(t, domain.LoadReady, env.view.state)
	require.Len(t, env.view.items, 3)
	assert.Equal(t, "奇异恩典.mp3", env.view.items[0].Name)

	env.presenter.PlayIndex(0)
	assert.Equal(t, "praise/附录/奇异恩典.mp3", env.view.nowPlaying.Key)
	assert.Equal(t, domain.StatusPlaying, env.view.status)
	assert.Equal(t, 0, env.view.current)
	require.Len(t, env.view.history, 1)

	env.presenter.TogglePlay()
	assert.Equal(t, domain.StatusPaused, env.view.status)

	env.presenter.Stop()
	assert.Equal(t, domain.StatusLoaded, env.view.status)
}

func TestPresenter_ListQueryCommands(t *testing.T) {
	env := newPresenterEnv(t)
	env.reload()

	env.presenter.CycleFilter()
	assert.Equal(t, domain.FilterOnlyChorus, env.view.query.Filter)
	require.Len(t, env.view.items, 1)
	assert.Equal(t, "主祷文-合.mp3", env.view.items[0].Name)

	env.presenter.CycleFilter()
	env.presenter.ToggleOrder()
	assert.True(t, env.view.query.Reversed)
	require.Len(t, env.view.items, 2)
	assert.Equal(t, "你真伟大.mp3", env.view.items[0].Name)

	env.presenter.Search("恩典")
	assert.Equal(t, "恩典", env.view.query.Search)
	assert.Len(t, env.view.items, 1)
	assert.Equal(t, 3, env.view.total)

	env.presenter.CycleMode()
	assert.Equal(t, domain.PlayModeRepeatOne, env.view.mode)

	env.presenter.ResetQuery()
	assert.Equal(t, domain.DefaultListQuery(), env.view.query)
	assert.Len(t, env.view.items, 3)
	assert.Equal(t, domain.DefaultListQuery(), env.prefs.Query())
	_, saved, err := env.store.Get("praise_searchQuery")
	require.NoError(t, err)
	assert.False(t, saved)
}

func TestPresenter_NextDirectoryAndRecent(t *testing.T) {
	env := newPresenterEnv(t)
	env.reload()
	env.presenter.PlayIndex(1)
	played := env.view.nowPlaying

	env.presenter.NextDirectory()
	env.presenter.loads.Wait()
	assert.Equal(t, []string{"praise/附录/", "praise/新歌/"}, env.view.loading)
	require.Len(t, env.view.items, 1)

	assert.False(t, env.presenter.PlayRecent(played.Key))
	assert.Contains(t, env.view.notifications, "That item is not in the current list")
}

func TestPresenter_LoadFailureNotifies(t *testing.T) {
	env := newPresenterEnv(t)
	env.lister.err = errors.New("connection refused")

	env.reload()
	assert.Equal(t, domain.LoadFailed, env.view.state)
	require.Len(t, env.view.notifications, 1)
	assert.Contains(t, env.view.notifications[0], "connection refused")
}

func TestPresenter_SleepTimer(t *testing.T) {
	env := newPresenterEnv(t)
	env.reload()
	env.presenter.PlayIndex(0)

	env.presenter.StartTimer(15)
	assert.True(t, env.view.timer.Active)
	assert.Equal(t, 15, env.view.timer.Minutes)

	env.clock.Advance(15 * time.Minute)
	assert.False(t, env.view.timer.Active)
	assert.Equal(t, domain.StatusPaused, env.view.status)

	env.presenter.StartTimer(0)
	assert.NotEmpty(t, env.view.notifications)
}

func TestPresenter_ShutdownUnsubscribes(t *testing.T) {
	env := newPresenterEnv(t)
	env.presenter.Shutdown()

	assert.False(t, env.bus.HasSubscribers(domain.EventHistoryChanged))

	// Loads after shutdown are ignored.
	env.presenter.Reload()
	env.presenter.loads.Wait()
	assert.Empty(t, env.view.loading)
}
