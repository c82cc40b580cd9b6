package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/tejashwikalptaru/gopraise/internal/domain"
	"github.com/tejashwikalptaru/gopraise/internal/ports"
)

// DefaultDirectory is the catalog directory used when none is configured.
const DefaultDirectory = "praise/附录/"

// CatalogService is the catalog store: the unfiltered item list of the active
// directory. A load replaces the catalog wholesale; when loads overlap, only
// the most recently started one is applied.
//
// All operations are thread-safe via sync.RWMutex.
type CatalogService struct {
	// Dependencies (injected)
	logger *slog.Logger
	lister ports.DirectoryLister
	bus    ports.EventBus

	directories []string

	// State
	generation uint64
	directory  string
	items      []domain.Item
	state      domain.LoadState
	lastErr    error

	// Concurrency control
	mu sync.RWMutex
}

// NewCatalogService creates a catalog service. directories is the menu of
// catalog prefixes offered to the user; it defaults to DefaultDirectory.
func NewCatalogService(
	logger *slog.Logger,
	lister ports.DirectoryLister,
	bus ports.EventBus,
	directories []string,
) *CatalogService {
	if len(directories) == 0 {
		directories = []string{DefaultDirectory}
	}

	logger.Debug("catalog service initialized", slog.Any("directories", directories))

	return &CatalogService{
		logger:      logger,
		lister:      lister,
		bus:         bus,
		directories: slices.Clone(directories),
		items:       []domain.Item{},
	}
}

// Load lists dir and replaces the catalog.
//
// On failure the catalog becomes empty, domain.CatalogLoadFailedEvent is
// published and the error is returned. If another Load started while this one
// was waiting on the lister, the result is dropped and domain.ErrStaleLoad is
// returned. Every event carries the load's generation so subscribers can
// drop a result that reaches them after a newer one.
func (s *CatalogService) Load(ctx context.Context, dir string) error {
	if strings.TrimSpace(dir) == "" {
		return domain.NewValidationError("directory", dir, "directory must not be empty")
	}

	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.state = domain.LoadLoading
	s.mu.Unlock()

	s.logger.Debug("loading catalog", slog.String("dir", dir), slog.Uint64("generation", gen))
	s.bus.Publish(domain.NewCatalogLoadingEvent(dir, gen))

	names, err := s.lister.List(ctx, dir)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.logger.Debug("discarding stale catalog load", slog.String("dir", dir), slog.Uint64("generation", gen))
		return domain.ErrStaleLoad
	}

	s.directory = dir
	if err != nil {
		s.items = []domain.Item{}
		s.state = domain.LoadFailed
		s.lastErr = err
		s.mu.Unlock()

		s.logger.Warn("catalog load failed", slog.String("dir", dir), slog.Any("error", err))
		s.bus.Publish(domain.NewCatalogLoadFailedEvent(dir, err, gen))
		return domain.NewServiceError("CatalogService", "Load", "failed to list "+dir,
			errors.Join(domain.ErrCatalogLoadFailed, err))
	}

	items := make([]domain.Item, 0, len(names))
	for _, name := range names {
		items = append(items, domain.NewItem(dir, name))
	}
	s.items = items
	s.state = domain.LoadReady
	s.lastErr = nil
	s.mu.Unlock()

	s.logger.Info("catalog loaded", slog.String("dir", dir), slog.Int("items", len(items)))
	s.bus.Publish(domain.NewCatalogLoadedEvent(dir, slices.Clone(items), gen))
	return nil
}

// Reload loads the active directory again, or the first configured one.
func (s *CatalogService) Reload(ctx context.Context) error {
	dir := s.Directory()
	if dir == "" {
		dir = s.directories[0]
	}
	return s.Load(ctx, dir)
}

// Items returns a copy of the catalog.
func (s *CatalogService) Items() []domain.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Directory returns the directory of the applied catalog ("" before the first load).
func (s *CatalogService) Directory() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.directory
}

// LoadState returns the state of the latest load.
func (s *CatalogService) LoadState() domain.LoadState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// LastError returns the error of the latest failed load, nil otherwise.
func (s *CatalogService) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Directories returns the configured directory menu.
func (s *CatalogService) Directories() []string {
	return slices.Clone(s.directories)
}

// NextDirectory returns the menu entry after the active directory, wrapping around.
func (s *CatalogService) NextDirectory() string {
	current := s.Directory()
	i := slices.Index(s.directories, current)
	return s.directories[(i+1)%len(s.directories)]
}
