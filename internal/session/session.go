// Package session owns the long-lived session object the rest of the
// application depends on: the resolved user, the loading flag, and the
// login/logout/authorization operations. One Manager is constructed at
// application start and passed down explicitly.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"staffdesk/internal/api"
	"staffdesk/internal/audit"
	"staffdesk/internal/credential"
	"staffdesk/internal/session/metrics"
	"staffdesk/pkg/domain"
	"staffdesk/pkg/platform/sentinel"
)

// Backend is the slice of the API client the session layer needs.
//
//go:generate mockgen -source=session.go -destination=mocks/mocks.go -package=mocks
type Backend interface {
	Login(ctx context.Context, email, password string) (*api.LoginResult, error)
	CurrentUser(ctx context.Context) (*api.Profile, error)
}

// Manager resolves and holds the current session. Bootstrap runs exactly once
// per process; login attempts are serialized so concurrent callers share one
// network round trip instead of racing on the stored token.
type Manager struct {
	store   *credential.Store
	backend Backend
	log     *slog.Logger
	metrics *metrics.Metrics
	audit   *audit.Publisher

	bootstrapOnce sync.Once
	loginGroup    singleflight.Group

	mu            sync.RWMutex
	user          *domain.User
	bootstrapped  bool
	loginInFlight int
}

func NewManager(store *credential.Store, backend Backend, log *slog.Logger, m *metrics.Metrics, auditor *audit.Publisher) *Manager {
	return &Manager{
		store:   store,
		backend: backend,
		log:     log,
		metrics: m,
		audit:   auditor,
	}
}

// Bootstrap resolves a previously stored token into a user, exactly once per
// Manager lifetime. Repeat calls are no-ops. Failures never propagate: a dead
// token is cleared and the session settles anonymous.
func (m *Manager) Bootstrap(ctx context.Context) {
	m.bootstrapOnce.Do(func() {
		m.resolve(ctx)
	})
}

func (m *Manager) resolve(ctx context.Context) {
	defer func() {
		m.mu.Lock()
		m.bootstrapped = true
		m.mu.Unlock()
	}()

	if _, ok := m.store.Load(ctx); !ok {
		return
	}

	profile, err := m.backend.CurrentUser(ctx)
	if err != nil {
		// The stored token is no longer usable. Drop it so the route gate
		// and the next start agree that we are anonymous.
		reason := "rejected"
		if errors.Is(err, sentinel.ErrExpired) {
			reason = "expired"
		}
		m.log.WarnContext(ctx, "stored token invalidated, clearing credential", "reason", reason, "error", err)
		m.store.Clear(ctx)
		m.metrics.IncBootstrapInvalidations()
		m.emit(ctx, audit.Event{Action: audit.ActionBootstrap, Outcome: audit.OutcomeInvalidated, Detail: reason})
		return
	}

	role, recognized := domain.NormalizeRole(profile.Role)
	if !recognized {
		m.log.WarnContext(ctx, "unrecognized role in profile, defaulting to Employee", "role", profile.Role)
	}

	m.mu.Lock()
	m.user = &domain.User{
		ID:          profile.ID,
		DisplayName: profile.Name,
		Email:       profile.Email,
		Role:        role,
	}
	m.mu.Unlock()
}

// Login authenticates against the backend and, on success, persists the token
// to both credential locations and installs the user. The backend's error
// message passes through unchanged so the caller can present it. Overlapping
// calls join the in-flight attempt rather than issuing a second one.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	m.mu.Lock()
	m.loginInFlight++
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.loginInFlight--
		m.mu.Unlock()
	}()

	_, err, _ := m.loginGroup.Do("login", func() (any, error) {
		result, err := m.backend.Login(ctx, email, password)
		if err != nil {
			m.metrics.IncLoginFailure()
			m.emit(ctx, audit.Event{Actor: email, Action: audit.ActionLogin, Outcome: audit.OutcomeFailure, Detail: err.Error()})
			return nil, err
		}

		m.store.Save(ctx, result.Token)

		role, recognized := domain.NormalizeRole(result.Employee.Role)
		if !recognized {
			m.log.WarnContext(ctx, "unrecognized role in login response, defaulting to Employee", "role", result.Employee.Role)
		}

		m.mu.Lock()
		m.user = &domain.User{
			ID:          result.Employee.ID,
			DisplayName: result.Employee.FirstName + " " + result.Employee.LastName,
			Email:       result.Employee.Email,
			Role:        role,
		}
		m.mu.Unlock()

		m.metrics.IncLoginSuccess()
		m.emit(ctx, audit.Event{Actor: email, Action: audit.ActionLogin, Outcome: audit.OutcomeSuccess})
		return nil, nil
	})
	return err
}

// Logout clears both credential copies and resets to anonymous. Purely
// client-side: the backend token is simply never presented again.
func (m *Manager) Logout() {
	ctx := context.Background()

	m.mu.Lock()
	actor := ""
	if m.user != nil {
		actor = m.user.Email
	}
	m.user = nil
	m.mu.Unlock()

	m.store.Clear(ctx)
	m.metrics.IncLogouts()
	m.emit(ctx, audit.Event{Actor: actor, Action: audit.ActionLogout, Outcome: audit.OutcomeSuccess})
}

// CanCreateRole reports whether the current user may create an account with
// the target role. Anonymous sessions can create nothing.
func (m *Manager) CanCreateRole(target domain.Role) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return false
	}
	return domain.CanCreate(m.user.Role, target)
}

// User returns the resolved user, if any.
func (m *Manager) User() (domain.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return domain.User{}, false
	}
	return *m.user, true
}

// IsLoading is true from construction until the first resolution settles, and
// again while a login round trip is outstanding.
func (m *Manager) IsLoading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return !m.bootstrapped || m.loginInFlight > 0
}

func (m *Manager) emit(ctx context.Context, event audit.Event) {
	if m.audit == nil {
		return
	}
	if err := m.audit.Emit(ctx, event); err != nil {
		m.log.WarnContext(ctx, "audit emit failed", "error", err)
	}
}
