// Package ports define repository interfaces for data persistence abstraction.
// These interfaces enable the repository pattern and allow swapping persistence mechanisms.
package ports

import (
	"github.com/tejashwikalptaru/gopraise/internal/domain"
)

// KeyValueStore is the device-local persistent store: string keys to string
// values with synchronous access. Values survive restarts of the process.
//
// Thread-safety: Implementations must be thread-safe.
type KeyValueStore interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
}

// PreferencesRepository handles the persistence of the list preferences.
//
// Thread-safety: Implementations must be thread-safe.
type PreferencesRepository interface {
	// SaveFilterMode persists the filter mode.
	SaveFilterMode(mode domain.FilterMode) error

	// LoadFilterMode retrieves the filter mode.
	// Missing or unknown values yield domain.FilterAll without an error.
	LoadFilterMode() (domain.FilterMode, error)

	// SaveSearchQuery persists the raw search text.
	SaveSearchQuery(query string) error

	// LoadSearchQuery retrieves the search text, "" if none was saved.
	LoadSearchQuery() (string, error)

	// SaveReversed persists the order flag.
	SaveReversed(reversed bool) error

	// LoadReversed retrieves the order flag.
	// Missing or unparsable values yield false without an error.
	LoadReversed() (bool, error)

	// Clear removes all saved preferences.
	Clear() error
}
