package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily. With an inbox
// attached, emissions are handed to a Worker instead of written inline, so
// callers on the session path never block on storage.
type Publisher struct {
	store Store
	inbox chan<- Event
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

// NewAsyncPublisher routes emissions through inbox for a Worker draining into
// store. Reads still go straight to the store.
func NewAsyncPublisher(store Store, inbox chan<- Event) *Publisher {
	return &Publisher{store: store, inbox: inbox}
}

func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if p.inbox != nil {
		select {
		case p.inbox <- event:
			return nil
		default:
			// Inbox full: fall back to a synchronous append rather than
			// dropping the event.
		}
	}
	return p.store.Append(ctx, event)
}

func (p *Publisher) List(ctx context.Context, actor string) ([]Event, error) {
	return p.store.ListByActor(ctx, actor)
}
