package service

import (
	"context"
	"errors"
	"sync"

	"github.com/tejashwikalptaru/gopraise/internal/adapter/audio/mock"
	"github.com/tejashwikalptaru/gopraise/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/gopraise/internal/domain"
	"github.com/tejashwikalptaru/gopraise/internal/logger"
)

// Mock directory lister for testing
type fakeLister struct {
	mu      sync.Mutex
	listing map[string][]string
	failFor map[string]error
	gates   map[string]chan struct{}
	calls   []string
}

func newFakeLister() *fakeLister {
	return &fakeLister{
		listing: make(map[string][]string),
		failFor: make(map[string]error),
		gates:   make(map[string]chan struct{}),
	}
}

func (f *fakeLister) set(dir string, names ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listing[dir] = names
}

func (f *fakeLister) fail(dir string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failFor[dir] = err
}

// block makes List(dir) wait until the returned function is called.
func (f *fakeLister) block(dir string) func() {
	gate := make(chan struct{})
	f.mu.Lock()
	f.gates[dir] = gate
	f.mu.Unlock()
	return func() { close(gate) }
}

func (f *fakeLister) List(ctx context.Context, dir string) ([]string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, dir)
	gate := f.gates[dir]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failFor[dir]; err != nil {
		return nil, err
	}
	return append([]string(nil), f.listing[dir]...), nil
}

type fakeLocator struct{}

func (fakeLocator) SourceURL(key string) string { return "mem://" + key }

// Mock preferences repository for testing
type memoryPrefs struct {
	mu       sync.Mutex
	filter   domain.FilterMode
	search   string
	reversed bool
	saves    int
	failSave bool
}

func newMemoryPrefs() *memoryPrefs {
	return &memoryPrefs{filter: domain.FilterAll}
}

var errSave = errors.New("disk full")

func (m *memoryPrefs) save(apply func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave {
		return errSave
	}
	apply()
	m.saves++
	return nil
}

func (m *memoryPrefs) SaveFilterMode(mode domain.FilterMode) error {
	return m.save(func() { m.filter = mode })
}

func (m *memoryPrefs) LoadFilterMode() (domain.FilterMode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter, nil
}

func (m *memoryPrefs) SaveSearchQuery(q string) error {
	return m.save(func() { m.search = q })
}

func (m *memoryPrefs) LoadSearchQuery() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.search, nil
}

func (m *memoryPrefs) SaveReversed(r bool) error {
	return m.save(func() { m.reversed = r })
}

func (m *memoryPrefs) LoadReversed() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reversed, nil
}

func (m *memoryPrefs) Clear() error {
	return m.save(func() {
		m.filter = domain.FilterAll
		m.search = ""
		m.reversed = false
	})
}

// testEnv wires the services the way the application does.
type testEnv struct {
	bus      *eventbus.SyncEventBus
	output   *mock.Output
	lister   *fakeLister
	prefs    *memoryPrefs
	catalog  *CatalogService
	pref     *PreferenceService
	playback *PlaybackService
	events   *eventRecorder
}

func newTestEnv(opts PlaybackOptions) *testEnv {
	log := logger.NewTestLogger()
	bus := eventbus.NewSyncEventBus()
	env := &testEnv{
		bus:    bus,
		output: mock.NewOutput(bus),
		lister: newFakeLister(),
		prefs:  newMemoryPrefs(),
		events: newEventRecorder(bus),
	}

	env.catalog = NewCatalogService(log, env.lister, bus, []string{"praise/"})
	env.pref = NewPreferenceService(log, env.prefs, bus)
	if opts.InitialQuery.Filter == "" {
		opts.InitialQuery = env.pref.Query()
	}
	env.playback = NewPlaybackService(log, env.output, fakeLocator{}, bus, opts)
	return env
}

func (e *testEnv) close() {
	_ = e.playback.Shutdown()
	_ = e.bus.Close()
}

// setMode cycles the play mode until it is mode.
func (e *testEnv) setMode(mode domain.PlayMode) {
	for e.playback.Mode() != mode {
		e.playback.CycleMode()
	}
}

// load lists names under "praise/" and loads the catalog.
func (e *testEnv) load(names ...string) {
	e.lister.set("praise/", names...)
	if err := e.catalog.Load(context.Background(), "praise/"); err != nil {
		panic(err)
	}
}

// eventRecorder captures every published event.
type eventRecorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func newEventRecorder(bus *eventbus.SyncEventBus) *eventRecorder {
	r := &eventRecorder{}
	bus.SubscribeAll(func(e domain.Event) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.events = append(r.events, e)
	})
	return r
}

func (r *eventRecorder) ofType(t domain.EventType) []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Event
	for _, e := range r.events {
		if e.Type() == t {
			out = append(out, e)
		}
	}
	return out
}

func (r *eventRecorder) last(t domain.EventType) domain.Event {
	all := r.ofType(t)
	if len(all) == 0 {
		return nil
	}
	return all[len(all)-1]
}

func (r *eventRecorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

func keys(items []domain.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Key)
	}
	return out
}
