package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// FileStore appends events as JSON lines so the trail survives process
// restarts. Each CLI run reopens the same file, which keeps the audit
// history continuous across short-lived commands.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create audit dir: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open audit file: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(event); err != nil {
		return fmt.Errorf("write audit event: %w", err)
	}
	return nil
}

func (s *FileStore) ListByActor(_ context.Context, actor string) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open audit file: %w", err)
	}
	defer f.Close()

	var matched []Event
	dec := json.NewDecoder(f)
	for {
		var event Event
		if err := dec.Decode(&event); err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("decode audit event: %w", err)
		}
		if actor == "" || event.Actor == actor {
			matched = append(matched, event)
		}
	}
	return matched, nil
}
