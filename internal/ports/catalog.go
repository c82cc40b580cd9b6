package ports

import (
	"context"

	"github.com/tejashwikalptaru/gopraise/internal/domain"
)

// DirectoryLister returns the playable item names directly under a prefix.
// Names are bare file names, already filtered to playable extensions, in the
// order the backing store returned them.
type DirectoryLister interface {
	List(ctx context.Context, dir string) ([]string, error)
}

// BlobFetcher returns the content of a single item.
// A missing key yields an error wrapping domain.ErrObjectNotFound.
type BlobFetcher interface {
	Fetch(ctx context.Context, key string) (*domain.Blob, error)
}

// TextFetcher returns scripture documents.
type TextFetcher interface {
	// Books returns the scripture index.
	Books(ctx context.Context) ([]domain.Book, error)

	// FetchText returns the full body of the named text file.
	FetchText(ctx context.Context, name string) (string, error)
}
