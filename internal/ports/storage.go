package ports

import (
	"context"
	"time"

	"github.com/tejashwikalptaru/gopraise/internal/domain"
)

// ObjectStore is the storage backend behind the API server.
type ObjectStore interface {
	// List returns up to limit objects whose key starts with prefix, without
	// descending into sub-prefixes.
	List(ctx context.Context, prefix string, limit int) ([]domain.ObjectInfo, error)

	// Get opens an object for reading. A missing key yields an error wrapping
	// domain.ErrObjectNotFound.
	Get(ctx context.Context, key string) (*domain.Blob, error)
}

// ListingCache stores directory listings for a limited time.
type ListingCache interface {
	// GetListing returns the cached listing and whether it was present.
	GetListing(ctx context.Context, prefix string) ([]domain.ObjectInfo, bool, error)

	// SetListing stores a listing for ttl.
	SetListing(ctx context.Context, prefix string, objects []domain.ObjectInfo, ttl time.Duration) error
}
