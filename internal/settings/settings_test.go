package settings

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *FileStore {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewFileStore(filepath.Join(t.TempDir(), "settings.json"), log)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	store := newStore(t)
	assert.Equal(t, Defaults(), store.Load())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newStore(t)

	store.Save(Settings{Theme: "dark", PageSize: 25})

	loaded := store.Load()
	assert.Equal(t, "dark", loaded.Theme)
	assert.Equal(t, 25, loaded.PageSize)
}

func TestCorruptFileFallsBackToDefaults(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := NewFileStore(path, log)
	assert.Equal(t, Defaults(), store.Load())
}

func TestLoadRepairsInvalidValues(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"theme":"","pageSize":-5}`), 0o600))

	store := NewFileStore(path, log)
	loaded := store.Load()
	assert.Equal(t, "light", loaded.Theme)
	assert.Equal(t, 10, loaded.PageSize)
}
