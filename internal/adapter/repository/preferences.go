// Package repository implements the preference repository on top of a
// string key-value store. Concrete stores live in the sub-packages.
package repository

import (
	"strconv"

	"github.com/tejashwikalptaru/gopraise/internal/domain"
	"github.com/tejashwikalptaru/gopraise/internal/ports"
)

// Persisted keys. Values are plain strings so any store can hold them.
const (
	KeyFilterMode   = "praise_filterMode"
	KeySearchQuery  = "praise_searchQuery"
	KeyReverseOrder = "praise_reverseOrder"
)

// PreferencesRepository implements ports.PreferencesRepository over a
// ports.KeyValueStore. Unknown stored values fall back to the defaults.
type PreferencesRepository struct {
	store ports.KeyValueStore
}

// NewPreferencesRepository creates a preferences repository backed by store.
func NewPreferencesRepository(store ports.KeyValueStore) *PreferencesRepository {
	return &PreferencesRepository{store: store}
}

// SaveFilterMode persists the filter mode.
func (r *PreferencesRepository) SaveFilterMode(mode domain.FilterMode) error {
	return r.set("SaveFilterMode", KeyFilterMode, string(mode))
}

// LoadFilterMode retrieves the filter mode, domain.FilterAll if unset or unknown.
func (r *PreferencesRepository) LoadFilterMode() (domain.FilterMode, error) {
	raw, ok, err := r.get("LoadFilterMode", KeyFilterMode)
	if err != nil || !ok {
		return domain.FilterAll, err
	}
	// ParseFilterMode already returns FilterAll for garbage
	mode, _ := domain.ParseFilterMode(raw)
	return mode, nil
}

// SaveSearchQuery persists the search text.
func (r *PreferencesRepository) SaveSearchQuery(query string) error {
	return r.set("SaveSearchQuery", KeySearchQuery, query)
}

// LoadSearchQuery retrieves the search text.
func (r *PreferencesRepository) LoadSearchQuery() (string, error) {
	raw, _, err := r.get("LoadSearchQuery", KeySearchQuery)
	return raw, err
}

// SaveReversed persists the order flag as "true" or "false".
func (r *PreferencesRepository) SaveReversed(reversed bool) error {
	return r.set("SaveReversed", KeyReverseOrder, strconv.FormatBool(reversed))
}

// LoadReversed retrieves the order flag. Only the exact text "true" enables it.
func (r *PreferencesRepository) LoadReversed() (bool, error) {
	raw, ok, err := r.get("LoadReversed", KeyReverseOrder)
	if err != nil || !ok {
		return false, err
	}
	return raw == "true", nil
}

// Clear removes all saved preferences.
func (r *PreferencesRepository) Clear() error {
	for _, key := range []string{KeyFilterMode, KeySearchQuery, KeyReverseOrder} {
		if err := r.store.Delete(key); err != nil {
			return domain.NewRepositoryError("Clear", "preferences", "failed to delete "+key, err)
		}
	}
	return nil
}

func (r *PreferencesRepository) get(op, key string) (string, bool, error) {
	v, ok, err := r.store.Get(key)
	if err != nil {
		return "", false, domain.NewRepositoryError(op, "preferences", "failed to read "+key, err)
	}
	return v, ok, nil
}

func (r *PreferencesRepository) set(op, key, value string) error {
	if err := r.store.Set(key, value); err != nil {
		return domain.NewRepositoryError(op, "preferences", "failed to write "+key, err)
	}
	return nil
}

// Verify interface implementation
var _ ports.PreferencesRepository = (*PreferencesRepository)(nil)
