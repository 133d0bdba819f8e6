package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is emitted from session logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor,omitempty"`
	Action    string    `json:"action"`
	Outcome   string    `json:"outcome"`
	Detail    string    `json:"detail,omitempty"`
}

// Actions recorded by the session layer.
const (
	ActionLogin     = "session.login"
	ActionLogout    = "session.logout"
	ActionBootstrap = "session.bootstrap"
)

// Outcomes attached to events.
const (
	OutcomeSuccess     = "success"
	OutcomeFailure     = "failure"
	OutcomeInvalidated = "invalidated"
)

// Store is the append-only persistence behind the publisher. An empty actor
// passed to ListByActor matches every event.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByActor(ctx context.Context, actor string) ([]Event, error)
}
