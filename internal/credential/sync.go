package credential

import (
	"context"
	"log/slog"
	"time"
)

// Synchronizer keeps the cookie copy eventually consistent with the backend.
// Two triggers feed it: a fixed-interval tick (catches writers outside this
// process) and the backend's change notification (catches our own writes
// immediately). Both funnel into the same idempotent Synchronize call.
type Synchronizer struct {
	store    *Store
	interval time.Duration
	log      *slog.Logger
}

func NewSynchronizer(store *Store, interval time.Duration, log *slog.Logger) *Synchronizer {
	return &Synchronizer{
		store:    store,
		interval: interval,
		log:      log,
	}
}

// Run blocks until ctx is cancelled, re-projecting the token on every trigger.
func (s *Synchronizer) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	changes := s.store.changes()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.store.Synchronize(ctx)
		case <-changes:
			s.store.Synchronize(ctx)
		}
	}
}
