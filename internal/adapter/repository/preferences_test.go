package repository

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/gopraise/internal/domain"
)

// mapStore is an in-memory ports.KeyValueStore.
type mapStore struct {
	mu     sync.Mutex
	values map[string]string
	err    error
}

func newMapStore() *mapStore {
	return &mapStore{values: make(map[string]string)}
}

func (m *mapStore) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *mapStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.values[key] = value
	return nil
}

func (m *mapStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.values, key)
	return nil
}

func TestPreferencesRepository_Defaults(t *testing.T) {
	repo := NewPreferencesRepository(newMapStore())

	mode, err := repo.LoadFilterMode()
	require.NoError(t, err)
	assert.Equal(t, domain.FilterAll, mode)

	search, err := repo.LoadSearchQuery()
	require.NoError(t, err)
	assert.Empty(t, search)

	reversed, err := repo.LoadReversed()
	require.NoError(t, err)
	assert.False(t, reversed)
}

func TestPreferencesRepository_RoundTripUsesPersistedKeys(t *testing.T) {
	store := newMapStore()
	repo := NewPreferencesRepository(store)

	require.NoError(t, repo.SaveFilterMode(domain.FilterExcludeChorus))
	require.NoError(t, repo.SaveSearchQuery(" 恩典 "))
	require.NoError(t, repo.SaveReversed(true))

	assert.Equal(t, map[string]string{
		"praise_filterMode":   "exclude_chorus",
		"praise_searchQuery":  " 恩典 ",
		"praise_reverseOrder": "true",
	}, store.values)

	mode, _ := repo.LoadFilterMode()
	assert.Equal(t, domain.FilterExcludeChorus, mode)
	search, _ := repo.LoadSearchQuery()
	assert.Equal(t, " 恩典 ", search)
	reversed, _ := repo.LoadReversed()
	assert.True(t, reversed)
}

func TestPreferencesRepository_UnknownValuesFallBack(t *testing.T) {
	store := newMapStore()
	store.values[KeyFilterMode] = "chorus_only"
	store.values[KeyReverseOrder] = "TRUE"
	repo := NewPreferencesRepository(store)

	mode, err := repo.LoadFilterMode()
	require.NoError(t, err)
	assert.Equal(t, domain.FilterAll, mode)

	reversed, err := repo.LoadReversed()
	require.NoError(t, err)
	assert.False(t, reversed)
}

func TestPreferencesRepository_Clear(t *testing.T) {
	store := newMapStore()
	repo := NewPreferencesRepository(store)
	require.NoError(t, repo.SaveSearchQuery("x"))
	require.NoError(t, repo.SaveReversed(true))

	require.NoError(t, repo.Clear())
	assert.Empty(t, store.values)
}

func TestPreferencesRepository_StoreErrors(t *testing.T) {
	store := newMapStore()
	store.err = errors.New("read-only")
	repo := NewPreferencesRepository(store)

	var repoErr *domain.RepositoryError
	require.ErrorAs(t, repo.SaveReversed(true), &repoErr)
	assert.Equal(t, "SaveReversed", repoErr.Op)

	mode, err := repo.LoadFilterMode()
	require.ErrorAs(t, err, &repoErr)
	assert.Equal(t, domain.FilterAll, mode)

	assert.ErrorIs(t, repo.Clear(), store.err)
}
