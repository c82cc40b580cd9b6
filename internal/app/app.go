// Package app provides application-level orchestration and dependency injection.
// This package wires together all components and manages the application lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tejashwikalptaru/gopraise/internal/adapter/api"
	"github.com/tejashwikalptaru/gopraise/internal/adapter/audio/mock"
	"github.com/tejashwikalptaru/gopraise/internal/adapter/audio/speaker"
	"github.com/tejashwikalptaru/gopraise/internal/adapter/clock"
	"github.com/tejashwikalptaru/gopraise/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/gopraise/internal/adapter/repository"
	"github.com/tejashwikalptaru/gopraise/internal/adapter/repository/fyneprefs"
	"github.com/tejashwikalptaru/gopraise/internal/adapter/repository/sqlite"
	"github.com/tejashwikalptaru/gopraise/internal/adapter/ui/tui"
	"github.com/tejashwikalptaru/gopraise/internal/config"
	"github.com/tejashwikalptaru/gopraise/internal/domain"
	"github.com/tejashwikalptaru/gopraise/internal/logger"
	"github.com/tejashwikalptaru/gopraise/internal/ports"
	"github.com/tejashwikalptaru/gopraise/internal/service"
)

// ErrHeadless is returned by Run on an application built without a terminal UI.
var ErrHeadless = errors.New("application was created headless")

// Application is the root application structure that holds all dependencies.
// It follows the Dependency Injection pattern with constructor-based injection.
//
// The Application struct is responsible for:
// - Creating and wiring all dependencies
// - Managing the application lifecycle (startup, shutdown)
// - Providing a clean entry point for the CLI
type Application struct {
	// Core dependencies
	logger  *slog.Logger
	config  Config
	fyneApp fyne.App

	// Infrastructure
	eventBus ports.EventBus
	client   *api.Client
	output   ports.AudioOutput
	store    ports.KeyValueStore

	// Repositories
	preferencesRepo ports.PreferencesRepository

	// Services
	catalogService    *service.CatalogService
	preferenceService *service.PreferenceService
	playbackService   *service.PlaybackService
	sleepTimerService *service.SleepTimerService

	// UI
	view      *tui.ProgramView
	presenter *tui.Presenter
	model     *tui.Model

	shutdownOnce sync.Once
	shutdownErr  error
}

// Config holds application configuration.
type Config struct {
	// AppID is the unique application identifier (fyne preference namespace)
	AppID string

	// AppName is the display name
	AppName string

	// APIBase is the base URL of the storage proxy
	APIBase string

	// Directories is the catalog directory menu; the first entry loads on start
	Directories []string

	// ChorusSuffix marks chorus recordings
	ChorusSuffix string

	// PrefsBackend selects the preference store: config.PrefsSQLite or config.PrefsFyne
	PrefsBackend string

	// PrefsDBPath is the sqlite database file
	PrefsDBPath string

	// UseMockAudio replaces the speaker with a silent recording output
	UseMockAudio bool

	// Headless skips the terminal UI (used by scripting commands and tests)
	Headless bool

	// LogLevel controls logging verbosity
	LogLevel slog.Level

	// LogFormat is "text" or "json"
	LogFormat string

	// LogFile sends logs to a rotating file
	LogFile string

	// LogOutput overrides the log destination when LogFile is empty
	LogOutput io.Writer

	// TestFyneApp allows injecting a test Fyne app for testing (nil for production)
	TestFyneApp fyne.App
}

// DefaultConfig returns the default application configuration.
func DefaultConfig() Config {
	return FromSettings(config.Default())
}

// FromSettings builds the application configuration from the config file model.
func FromSettings(s config.Config) Config {
	loggerCfg := logger.DefaultConfig()
	return Config{
		AppID:        "org.gopraise.app",
		AppName:      "Praise",
		APIBase:      s.API.BaseURL,
		Directories:  s.Catalog.Directories,
		ChorusSuffix: s.Catalog.ChorusSuffix,
		PrefsBackend: s.Prefs.Backend,
		PrefsDBPath:  s.Prefs.DBPath,
		LogLevel:     logger.ParseLevel(s.Log.Level, loggerCfg.Level),
		LogFormat:    s.Log.Format,
		LogFile:      s.Log.File,
	}
}

// NewApplication creates a new application with all dependencies wired.
// This is the main dependency injection function.
func NewApplication(cfg Config) (app *Application, err error) {
	if len(cfg.Directories) == 0 {
		return nil, domain.NewValidationError("directories", cfg.Directories, "at least one directory is required")
	}

	app = &Application{config: cfg}
	defer func() {
		if err != nil {
			_ = app.Shutdown()
			app = nil
		}
	}()

	// Step 1: Create logger
	loggerCfg := logger.DefaultConfig()
	loggerCfg.Level = cfg.LogLevel
	loggerCfg.File = cfg.LogFile
	if cfg.LogFormat != "" {
		loggerCfg.Format = cfg.LogFormat
	}
	// The terminal UI owns the screen; logs go to the file or nowhere.
	loggerCfg.Discard = !cfg.Headless
	app.logger = newLogger(loggerCfg, cfg.LogOutput)
	app.logger.Info("initializing application",
		slog.String("app_id", cfg.AppID),
		slog.String("api", cfg.APIBase),
		slog.String("prefs", cfg.PrefsBackend))

	// Step 2: Create an event bus
	syncBus := eventbus.NewSyncEventBus()
	syncBus.SetLogger(app.logger.With(slog.String("component", "eventbus")))
	app.eventBus = syncBus

	// Step 3: Create the API client and the audio output
	app.client = api.NewClient(cfg.APIBase)

	if cfg.UseMockAudio {
		output := mock.NewOutput(app.eventBus)
		output.SetLogger(app.logger.With(slog.String("output", "mock")))
		app.output = output
	} else {
		app.output = speaker.NewOutput(app.logger.With(slog.String("output", "speaker")), app.eventBus)
	}

	// Step 4: Create the preference store and repository
	if err := app.openStore(); err != nil {
		return nil, err
	}
	app.preferencesRepo = repository.NewPreferencesRepository(app.store)

	// Step 5: Create services (with dependency injection)
	app.catalogService = service.NewCatalogService(
		app.logger.With(slog.String("service", "catalog")),
		app.client,
		app.eventBus,
		cfg.Directories,
	)

	app.preferenceService = service.NewPreferenceService(
		app.logger.With(slog.String("service", "preference")),
		app.preferencesRepo,
		app.eventBus,
	)

	suffix := cfg.ChorusSuffix
	if suffix == "" {
		suffix = domain.DefaultChorusSuffix
	}
	app.playbackService = service.NewPlaybackService(
		app.logger.With(slog.String("service", "playback")),
		app.output,
		app.client,
		app.eventBus,
		service.PlaybackOptions{
			ChorusMatcher: domain.SuffixMatcher(suffix),
			InitialQuery:  app.preferenceService.Query(),
		},
	)

	app.sleepTimerService = service.NewSleepTimerService(
		app.logger.With(slog.String("service", "sleep_timer")),
		clock.New(),
		app.playbackService,
		app.eventBus,
	)

	if cfg.Headless {
		return app, nil
	}

	// Step 6: Create Presenter and wire with the terminal UI
	app.view = tui.NewProgramView()
	app.presenter = tui.NewPresenter(
		app.logger.With(slog.String("component", "presenter")),
		app.playbackService,
		app.catalogService,
		app.preferenceService,
		app.sleepTimerService,
		app.eventBus,
		app.view,
	)
	app.model = tui.NewModel(app.presenter)

	return app, nil
}

func newLogger(cfg logger.Config, out io.Writer) *slog.Logger {
	if out == nil || cfg.File != "" {
		return logger.NewLogger(cfg)
	}
	opts := &slog.HandlerOptions{Level: cfg.Level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(out, opts))
	}
	return slog.New(slog.NewTextHandler(out, opts))
}

func (a *Application) openStore() error {
	switch a.config.PrefsBackend {
	case config.PrefsFyne:
		if a.config.TestFyneApp != nil {
			a.fyneApp = a.config.TestFyneApp
		} else {
			a.fyneApp = fyneapp.NewWithID(a.config.AppID)
		}
		a.store = fyneprefs.NewStore(a.fyneApp.Preferences())
		return nil

	case config.PrefsSQLite, "":
		store, err := sqlite.Open(a.config.PrefsDBPath)
		if err != nil {
			return fmt.Errorf("failed to open preference store: %w", err)
		}
		a.store = store
		return nil

	default:
		return domain.NewValidationError("prefs_backend", a.config.PrefsBackend, "unknown preference backend")
	}
}

// Start loads the first configured directory. It blocks until the listing
// arrives or fails.
func (a *Application) Start(ctx context.Context) error {
	return a.catalogService.Load(ctx, a.config.Directories[0])
}

// Run starts the terminal UI and blocks until the user quits or ctx is done.
func (a *Application) Run(ctx context.Context) error {
	if a.model == nil {
		return ErrHeadless
	}

	a.logger.Info("gopraise started", slog.String("version", CurrentBuild().String()))

	program := tui.NewProgram(a.model, a.view, tea.WithContext(ctx))
	a.presenter.Reload()

	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Shutdown gracefully shuts down the application. It is safe to call more
// than once; later calls return the first result.
func (a *Application) Shutdown() error {
	a.shutdownOnce.Do(func() {
		a.shutdownErr = a.shutdown()
	})
	return a.shutdownErr
}

func (a *Application) shutdown() error {
	if a.logger != nil {
		a.logger.Info("shutting down application")
	}

	var errs []error

	// Shutdown UI and presenter
	if a.presenter != nil {
		a.presenter.Shutdown()
	}
	if a.view != nil {
		a.view.Close()
	}

	// Shutdown services (in reverse order of creation)
	if a.sleepTimerService != nil {
		a.sleepTimerService.Shutdown()
	}
	if a.playbackService != nil {
		if err := a.playbackService.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("playback service: %w", err))
		}
	}

	// Shutdown infrastructure
	if a.output != nil {
		if err := a.output.Close(); err != nil {
			errs = append(errs, fmt.Errorf("audio output: %w", err))
		}
	}
	if closer, ok := a.store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("preference store: %w", err))
		}
	}
	if a.eventBus != nil {
		if err := a.eventBus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("event bus: %w", err))
		}
	}

	err := errors.Join(errs...)
	if a.logger != nil {
		if err != nil {
			a.logger.Warn("application shutdown with errors", slog.Any("error", err))
		} else {
			a.logger.Info("application shutdown complete")
		}
	}
	return err
}

// Logger returns the application logger.
func (a *Application) Logger() *slog.Logger {
	return a.logger
}

// GetServices returns the application services.
func (a *Application) GetServices() (*service.CatalogService, *service.PreferenceService, *service.PlaybackService, *service.SleepTimerService) {
	return a.catalogService, a.preferenceService, a.playbackService, a.sleepTimerService
}

// GetEventBus returns the event bus.
func (a *Application) GetEventBus() ports.EventBus {
	return a.eventBus
}

// GetClient returns the storage proxy client.
func (a *Application) GetClient() *api.Client {
	return a.client
}

// GetOutput returns the audio output.
func (a *Application) GetOutput() ports.AudioOutput {
	return a.output
}

// GetFyneApp returns the Fyne app backing the preference store, nil for sqlite.
func (a *Application) GetFyneApp() fyne.App {
	return a.fyneApp
}
