package credential

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"staffdesk/pkg/platform/sentinel"
)

// FileBackend persists the token as a single file in the user's config
// directory, mode 0600. Writes go through a temp file and rename so a crash
// never leaves a half-written credential.
type FileBackend struct {
	path    string
	changes chan struct{}
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{
		path:    path,
		changes: make(chan struct{}, 1),
	}
}

func (b *FileBackend) Load(_ context.Context) (string, error) {
	raw, err := os.ReadFile(b.path)
	if os.IsNotExist(err) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", sentinel.ErrNotFound
	}
	return token, nil
}

func (b *FileBackend) Save(_ context.Context, token string) error {
	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".auth_token-*")
	if err != nil {
		return fmt.Errorf("create temp token file: %w", err)
	}
	tmpName := tmp.Name()
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp token file: %w", err)
	}
	if _, err := tmp.WriteString(token); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp token file: %w", err)
	}
	if err := os.Rename(tmpName, b.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace token file: %w", err)
	}

	b.notify()
	return nil
}

func (b *FileBackend) Clear(_ context.Context) error {
	err := os.Remove(b.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token file: %w", err)
	}
	b.notify()
	return nil
}

// Changes implements Notifier for same-process writers. Another process
// touching the file is picked up by the interval tick instead.
func (b *FileBackend) Changes() <-chan struct{} {
	return b.changes
}

func (b *FileBackend) notify() {
	select {
	case b.changes <- struct{}{}:
	default:
	}
}
