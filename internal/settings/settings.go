// Package settings persists the operator's display preferences. Failures
// follow the credential store's posture: log and fall back to defaults,
// never error into caller code.
package settings

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
)

// Settings are the preferences the original front-end kept per user.
type Settings struct {
	Theme    string `json:"theme"`
	PageSize int    `json:"pageSize"`
}

// Defaults returns the settings used before the operator changes anything.
func Defaults() Settings {
	return Settings{
		Theme:    "light",
		PageSize: 10,
	}
}

// FileStore reads and writes settings as JSON under the user config dir.
type FileStore struct {
	path string
	log  *slog.Logger
}

func NewFileStore(path string, log *slog.Logger) *FileStore {
	return &FileStore{path: path, log: log}
}

// Load returns the persisted settings, or defaults when the file is missing
// or unreadable.
func (s *FileStore) Load() Settings {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("settings load failed, using defaults", "error", err)
		}
		return Defaults()
	}

	loaded := Defaults()
	if err := json.Unmarshal(raw, &loaded); err != nil {
		s.log.Warn("settings file corrupt, using defaults", "error", err)
		return Defaults()
	}
	if loaded.PageSize <= 0 {
		loaded.PageSize = Defaults().PageSize
	}
	if loaded.Theme == "" {
		loaded.Theme = Defaults().Theme
	}
	return loaded
}

// Save persists the settings, creating parent directories as needed.
func (s *FileStore) Save(settings Settings) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		s.log.Warn("settings save failed", "error", err)
		return
	}
	encoded, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		s.log.Warn("settings encode failed", "error", err)
		return
	}
	if err := os.WriteFile(s.path, encoded, 0o600); err != nil {
		s.log.Warn("settings save failed", "error", err)
	}
}
