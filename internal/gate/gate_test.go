package gate_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffdesk/internal/credential"
	"staffdesk/internal/gate"
	"staffdesk/internal/platform/config"
)

func newGate(t *testing.T) http.Handler {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Upstream", "hit")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("app:" + r.URL.Path))
	}))
	t.Cleanup(upstream.Close)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	router, err := gate.NewRouter(config.Gate{
		Addr:        ":0",
		UpstreamURL: upstream.URL,
		LoginPath:   "/login",
	}, log, nil)
	require.NoError(t, err)
	return router
}

func TestGateRedirectsAnonymousNavigation(t *testing.T) {
	router := newGate(t)

	req := httptest.NewRequest(http.MethodGet, "/employees", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/login", location.Path)
	assert.Equal(t, "/employees", location.Query().Get("callbackUrl"))
}

func TestGateRejectsAnonymousAPIRequest(t *testing.T) {
	router := newGate(t)

	req := httptest.NewRequest(http.MethodGet, "/api/employees", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "unauthorized")
}

func TestGatePassesThroughWithCookie(t *testing.T) {
	router := newGate(t)

	req := httptest.NewRequest(http.MethodGet, "/employees", nil)
	req.Header.Set("Accept", "text/html")
	req.AddCookie(&http.Cookie{Name: credential.TokenCookie, Value: "tok-present"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hit", rec.Header().Get("X-Upstream"))
}

func TestGateIgnoresEmptyCookie(t *testing.T) {
	router := newGate(t)

	req := httptest.NewRequest(http.MethodGet, "/employees", nil)
	req.Header.Set("Accept", "text/html")
	req.AddCookie(&http.Cookie{Name: credential.TokenCookie, Value: ""})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestGateLeavesLoginPageOpen(t *testing.T) {
	router := newGate(t)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "app:/login", rec.Body.String())
}

func TestGateHealthEndpointIsOpen(t *testing.T) {
	router := newGate(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
