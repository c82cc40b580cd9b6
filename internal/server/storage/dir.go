package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tejashwikalptaru/gopraise/internal/domain"
	"github.com/tejashwikalptaru/gopraise/internal/ports"
)

// DirStore serves objects from a local directory tree. Object keys are
// slash-separated paths relative to the root.
type DirStore struct {
	root string
}

// NewDirStore creates a store rooted at root.
func NewDirStore(root string) (*DirStore, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}
	return &DirStore{root: root}, nil
}

// List returns the files whose key starts with prefix and that sit directly
// in the prefix's directory, sorted by key.
func (s *DirStore) List(_ context.Context, prefix string, limit int) ([]domain.ObjectInfo, error) {
	dir, base := path.Split(prefix)
	full, err := s.resolve(dir)
	if err != nil {
		return []domain.ObjectInfo{}, nil
	}

	entries, err := os.ReadDir(full)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.ObjectInfo{}, nil
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	objects := []domain.ObjectInfo{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), base) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		objects = append(objects, domain.ObjectInfo{
			Key:         dir + e.Name(),
			Size:        info.Size(),
			ContentType: mime.TypeByExtension(path.Ext(e.Name())),
		})
		if limit > 0 && len(objects) >= limit {
			break
		}
	}
	return objects, nil
}

// Get opens the file stored under key.
func (s *DirStore) Get(_ context.Context, key string) (*domain.Blob, error) {
	full, err := s.resolve(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrObjectNotFound, key)
	}

	f, err := os.Open(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrObjectNotFound, key)
	}
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%w: %s", domain.ErrObjectNotFound, key)
	}

	return &domain.Blob{
		Body:        f,
		ContentType: mime.TypeByExtension(path.Ext(key)),
		Size:        info.Size(),
	}, nil
}

// resolve maps a key to a path under root, rejecting keys that escape it.
func (s *DirStore) resolve(key string) (string, error) {
	for _, seg := range strings.Split(key, "/") {
		if seg == ".." {
			return "", errors.New("key escapes root")
		}
	}
	return filepath.Join(s.root, filepath.FromSlash(path.Clean("/"+key))), nil
}

var _ ports.ObjectStore = (*DirStore)(nil)
