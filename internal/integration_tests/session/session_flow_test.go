package session_test

import (
	"context"
	"io"
	"log/slog"
	"net/http/cookiejar"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffdesk/internal/api"
	"staffdesk/internal/audit"
	"staffdesk/internal/credential"
	"staffdesk/internal/session"
	"staffdesk/pkg/domain"
	"staffdesk/pkg/testutil"
)

// given, when, and then phrase the flow tests as scenarios; they are plain
// subtests with a prefix, so go test filtering still works.
func given(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Given "+desc, fn)
}

func when(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("When "+desc, fn)
}

func then(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Then "+desc, fn)
}

// harness wires the real client stack (credential store, API client, session
// manager) against the fake backend. A "second application start" is
// simulated with a fresh manager over the same credential store.
type harness struct {
	backend *testutil.FakeBackend
	local   *credential.MemoryBackend
	store   *credential.Store
	manager *session.Manager
	trail   *audit.InMemoryStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	fake := testutil.NewFakeBackend(t)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	origin, err := url.Parse(fake.URL())
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	local := credential.NewMemoryBackend()
	store := credential.NewStore(local, credential.NewCookieProjection(jar, origin, false), log)

	client, err := api.NewClient(fake.URL(), jar, store)
	require.NoError(t, err)

	trail := audit.NewInMemoryStore()
	return &harness{
		backend: fake,
		local:   local,
		store:   store,
		manager: session.NewManager(store, client, log, nil, audit.NewPublisher(trail)),
		trail:   trail,
	}
}

func TestLoginThenRestartResolvesSameUser(t *testing.T) {
	h := newHarness(t)
	h.backend.AddAccount("a@b.com", "pw", 2, "A", "B")

	h.manager.Bootstrap(context.Background())
	require.NoError(t, h.manager.Login(context.Background(), "a@b.com", "pw"))

	user, ok := h.manager.User()
	require.True(t, ok)
	assert.Equal(t, "A B", user.DisplayName)
	assert.Equal(t, domain.RoleLeader, user.Role)

	// Simulate an application restart: a fresh manager over the same
	// credential store must resolve the persisted token into the same identity.
	h2 := session.NewManager(h.store, mustClient(t, h), slog.New(slog.NewTextHandler(io.Discard, nil)), nil, nil)
	h2.Bootstrap(context.Background())

	resolved, ok := h2.User()
	require.True(t, ok)
	assert.Equal(t, user.ID, resolved.ID)
	assert.Equal(t, domain.RoleLeader, resolved.Role)
	assert.False(t, h2.IsLoading())
}

func mustClient(t *testing.T, h *harness) *api.Client {
	t.Helper()
	client, err := api.NewClient(h.backend.URL(), nil, h.store)
	require.NoError(t, err)
	return client
}

func TestExpiredTokenIsInvalidatedOnBootstrap(t *testing.T) {
	h := newHarness(t)
	account := h.backend.AddAccount("a@b.com", "pw", 1, "A", "B")

	require.NoError(t, h.local.Save(context.Background(), h.backend.IssueExpiredToken(account)))

	h.manager.Bootstrap(context.Background())

	_, ok := h.manager.User()
	assert.False(t, ok)
	_, ok = h.store.Load(context.Background())
	assert.False(t, ok, "expired token must be purged from the local store")

	events := h.trail.All()
	require.Len(t, events, 1)
	assert.Equal(t, audit.ActionBootstrap, events[0].Action)
	assert.Equal(t, audit.OutcomeInvalidated, events[0].Outcome)
}

func TestLoginFailureSurfacesBackendMessage(t *testing.T) {
	h := newHarness(t)
	h.backend.AddAccount("a@b.com", "pw", 1, "A", "B")
	h.manager.Bootstrap(context.Background())

	err := h.manager.Login(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())

	_, ok := h.manager.User()
	assert.False(t, ok)
}

func TestLogoutClearsEverything(t *testing.T) {
	h := newHarness(t)

	given(t, "a director is logged in", func(t *testing.T) {
		h.backend.AddAccount("a@b.com", "pw", 3, "Di", "Rector")
		h.manager.Bootstrap(context.Background())
		require.NoError(t, h.manager.Login(context.Background(), "a@b.com", "pw"))
		assert.True(t, h.manager.CanCreateRole(domain.RoleDirector))
	})

	when(t, "the session is logged out", func(t *testing.T) {
		h.manager.Logout()
	})

	then(t, "no identity or credential remains", func(t *testing.T) {
		_, ok := h.manager.User()
		assert.False(t, ok)
		assert.False(t, h.manager.CanCreateRole(domain.RoleEmployee))
		_, ok = h.store.Load(context.Background())
		assert.False(t, ok)
		_, ok = h.store.Cookie()
		assert.False(t, ok)
	})
}
