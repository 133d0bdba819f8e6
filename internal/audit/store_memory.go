package audit

import (
	"context"
	"sync"
)

// InMemoryStore keeps the audit trail in process memory. It intentionally
// favors clarity over performance; a durable sink can replace it behind the
// same interface.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *InMemoryStore) ListByActor(_ context.Context, actor string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []Event
	for _, event := range s.events {
		if actor == "" || event.Actor == actor {
			matched = append(matched, event)
		}
	}
	return matched, nil
}

// All returns a copy of every recorded event in append order.
func (s *InMemoryStore) All() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event(nil), s.events...)
}
