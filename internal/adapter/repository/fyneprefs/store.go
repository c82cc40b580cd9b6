// Package fyneprefs provides a ports.KeyValueStore using Fyne preferences.
package fyneprefs

import (
	"sync"

	"fyne.io/fyne/v2"

	"github.com/tejashwikalptaru/gopraise/internal/ports"
)

// missing is the fallback used to tell an absent key from an empty value.
const missing = "\x00gopraise.missing"

// Store implements ports.KeyValueStore using Fyne preferences.
//
// Fyne preferences automatically use OS-specific app data directories:
// - macOS: ~/Library/Preferences/<app id>.plist
// - Linux: ~/.config/fyne/<app id>/
// - Windows: %APPDATA%\fyne\<app id>\
//
// Thread-safe: All operations protected by sync.RWMutex.
type Store struct {
	prefs fyne.Preferences
	mu    sync.RWMutex
}

// NewStore creates a store over prefs, usually app.Preferences().
func NewStore(prefs fyne.Preferences) *Store {
	return &Store{
		prefs: prefs,
	}
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := s.prefs.StringWithFallback(key, missing)
	if v == missing {
		return "", false, nil
	}
	return v, true, nil
}

// Set stores value under key.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs.SetString(key, value)
	return nil
}

// Delete removes key.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs.RemoveValue(key)
	return nil
}

// Verify interface implementation
var _ ports.KeyValueStore = (*Store)(nil)
