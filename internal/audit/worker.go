package audit

import "context"

// Worker consumes audit events from a channel and persists them. On shutdown
// it drains whatever is still buffered before returning, so a short-lived
// process does not lose the events it just emitted.
type Worker struct {
	store Store
	inbox <-chan Event
}

func NewWorker(store Store, inbox <-chan Event) *Worker {
	return &Worker{store: store, inbox: inbox}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return w.drain(ctx)
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				return err
			}
		}
	}
}

func (w *Worker) drain(ctx context.Context) error {
	flush := context.WithoutCancel(ctx)
	for {
		select {
		case event := <-w.inbox:
			if err := w.store.Append(flush, event); err != nil {
				return err
			}
		default:
			return ctx.Err()
		}
	}
}
