package credential

import (
	"context"
	"sync"

	"staffdesk/pkg/platform/sentinel"
)

// MemoryBackend keeps the token in process memory. Used by tests and by
// sessions that should not outlive the process.
type MemoryBackend struct {
	mu      sync.RWMutex
	token   string
	present bool
	changes chan struct{}
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{changes: make(chan struct{}, 1)}
}

func (b *MemoryBackend) Load(_ context.Context) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.present {
		return "", sentinel.ErrNotFound
	}
	return b.token, nil
}

func (b *MemoryBackend) Save(_ context.Context, token string) error {
	b.mu.Lock()
	b.token = token
	b.present = true
	b.mu.Unlock()
	b.notify()
	return nil
}

func (b *MemoryBackend) Clear(_ context.Context) error {
	b.mu.Lock()
	b.token = ""
	b.present = false
	b.mu.Unlock()
	b.notify()
	return nil
}

// Changes implements Notifier. The channel is buffered and sends coalesce,
// which is all the synchronizer needs.
func (b *MemoryBackend) Changes() <-chan struct{} {
	return b.changes
}

func (b *MemoryBackend) notify() {
	select {
	case b.changes <- struct{}{}:
	default:
	}
}
