package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "nested", "history.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	// Test LoadAll on empty
	records, err := store.LoadAll()
	assert.NoError(t, err)
	assert.Empty(t, records)

	latest, err := store.LoadLatest()
	assert.NoError(t, err)
	assert.Nil(t, latest)

	first := NewRunRecord("master", "q01", "1")
	first.StartedAt = time.Now().Add(-1 * time.Hour)
	first.Status = StatusSucceeded
	first.Mean = 12.5
	require.NoError(t, store.Save(first))

	second := NewRunRecord("patched", "q01", "1")
	second.Status = StatusFailed
	second.ExitCode = 2
	require.NoError(t, store.Save(second))

	// Verify persistence and order
	records, err = store.LoadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "master", records[0].TestName)
	assert.Equal(t, 12.5, records[0].Mean)
	assert.Equal(t, "patched", records[1].TestName)
	assert.NotEqual(t, records[0].ID, records[1].ID)

	latest, err = store.LoadLatest()
	require.NoError(t, err)
	assert.Equal(t, 2, latest.ExitCode)
	assert.NoError(t, store.Close())
}

func TestFileStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	store, err := NewFileStore(path)
	require.NoError(t, err)

	_, err = store.LoadAll()
	assert.Error(t, err)
	assert.Error(t, store.Save(NewRunRecord("x", "q", "1")))
}

func TestNopStore(t *testing.T) {
	var s Store = NopStore{}
	assert.NoError(t, s.Save(NewRunRecord("x", "q", "1")))
	all, err := s.LoadAll()
	assert.NoError(t, err)
	assert.Empty(t, all)
	latest, err := s.LoadLatest()
	assert.NoError(t, err)
	assert.Nil(t, latest)
}
