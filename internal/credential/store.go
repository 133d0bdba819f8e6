// Package credential keeps the bearer token in two places that must agree:
// an authoritative local backend that survives restarts, and a cookie
// projection that the route gate can inspect on every request. The backend
// is the source of truth; the cookie is derived state and is rebuilt from it
// whenever the synchronizer runs.
package credential

import (
	"context"
	"errors"
	"log/slog"

	"staffdesk/pkg/platform/sentinel"
)

// TokenCookie is the cookie name the route gate inspects. It matches the key
// used by the local backend so both copies are recognizably the same credential.
const TokenCookie = "auth_token"

// Backend is the authoritative persistence location for the bearer token.
// Implementations return sentinel.ErrNotFound when no token is stored.
type Backend interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Notifier is implemented by backends that can signal out-of-band changes
// (another writer touched the token). The synchronizer subscribes to it in
// addition to its fixed-interval tick.
type Notifier interface {
	Changes() <-chan struct{}
}

// Store is the facade the rest of the application talks to. Every operation
// swallows storage failures after logging them: a broken disk or unreachable
// redis degrades to "no token", never to an error in caller code.
type Store struct {
	backend Backend
	cookies *CookieProjection
	log     *slog.Logger
}

func NewStore(backend Backend, cookies *CookieProjection, log *slog.Logger) *Store {
	return &Store{
		backend: backend,
		cookies: cookies,
		log:     log,
	}
}

// Save writes the token to the backend and mirrors it into the cookie copy.
func (s *Store) Save(ctx context.Context, token string) {
	if err := s.backend.Save(ctx, token); err != nil {
		s.log.WarnContext(ctx, "credential save failed", "error", err)
	}
	s.cookies.Set(token)
}

// Load reads the authoritative copy. Absence and storage failure are the
// same answer for callers: no usable credential.
func (s *Store) Load(ctx context.Context) (string, bool) {
	token, err := s.backend.Load(ctx)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.log.WarnContext(ctx, "credential load failed", "error", err)
		}
		return "", false
	}
	return token, true
}

// Clear removes the token from both locations. Used on logout and when the
// backend rejects a stored token as invalid.
func (s *Store) Clear(ctx context.Context) {
	if err := s.backend.Clear(ctx); err != nil {
		s.log.WarnContext(ctx, "credential clear failed", "error", err)
	}
	s.cookies.Drop()
}

// Synchronize re-derives the cookie copy from the backend: mirror the token
// when one exists, drop the cookie when none does. Idempotent, so it is safe
// to fire from both the interval ticker and change notifications.
func (s *Store) Synchronize(ctx context.Context) bool {
	token, ok := s.Load(ctx)
	if !ok {
		s.cookies.Drop()
		return false
	}
	s.cookies.Set(token)
	return true
}

// Cookie exposes the current cookie copy for inspection.
func (s *Store) Cookie() (string, bool) {
	return s.cookies.Value()
}

// changes returns the backend's notification channel, or nil when the
// backend cannot signal changes. A nil channel simply never fires in select.
func (s *Store) changes() <-chan struct{} {
	if n, ok := s.backend.(Notifier); ok {
		return n.Changes()
	}
	return nil
}
