package storage

import (
	"context"
	"log/slog"
	"time"

	"github.com/tejashwikalptaru/gopraise/internal/domain"
	"github.com/tejashwikalptaru/gopraise/internal/ports"
)

// DefaultListingTTL is how long a cached directory listing is served.
const DefaultListingTTL = 5 * time.Minute

// CachedStore decorates an ObjectStore with a listing cache. Cache failures
// are logged and fall through to the backing store. Get is never cached.
type CachedStore struct {
	logger *slog.Logger
	store  ports.ObjectStore
	cache  ports.ListingCache
	ttl    time.Duration
}

// NewCachedStore wraps store. A non-positive ttl selects DefaultListingTTL.
func NewCachedStore(logger *slog.Logger, store ports.ObjectStore, cache ports.ListingCache, ttl time.Duration) *CachedStore {
	if ttl <= 0 {
		ttl = DefaultListingTTL
	}
	return &CachedStore{logger: logger, store: store, cache: cache, ttl: ttl}
}

// List serves prefix from the cache, filling it on a miss. The cache key is
// the prefix alone; a cached listing is truncated to limit on the way out.
func (s *CachedStore) List(ctx context.Context, prefix string, limit int) ([]domain.ObjectInfo, error) {
	cached, ok, err := s.cache.GetListing(ctx, prefix)
	if err != nil {
		s.logger.Warn("listing cache read failed", slog.String("prefix", prefix), slog.Any("error", err))
	}
	if ok {
		if limit > 0 && len(cached) > limit {
			cached = cached[:limit]
		}
		return cached, nil
	}

	objects, err := s.store.List(ctx, prefix, limit)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetListing(ctx, prefix, objects, s.ttl); err != nil {
		s.logger.Warn("listing cache write failed", slog.String("prefix", prefix), slog.Any("error", err))
	}
	return objects, nil
}

// Get reads through to the backing store.
func (s *CachedStore) Get(ctx context.Context, key string) (*domain.Blob, error) {
	return s.store.Get(ctx, key)
}

var _ ports.ObjectStore = (*CachedStore)(nil)
