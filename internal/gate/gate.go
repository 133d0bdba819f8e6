// Package gate is the server-side request interceptor that fronts the staff
// application. It checks for the auth_token cookie the credential store
// maintains and sends unauthenticated navigation to the login page. It
// deliberately does not verify signature or expiry: the backend rejects dead
// tokens itself, and the gate only has to agree with the client about
// presence.
package gate

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"staffdesk/internal/credential"
	"staffdesk/internal/gate/metrics"
	"staffdesk/internal/platform/config"
)

// RequireToken gates a handler on the presence of the auth_token cookie.
// Browser navigations are redirected to loginPath with a callbackUrl query
// carrying the originally requested path; API requests get a 401 envelope.
func RequireToken(loginPath string, log *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie(credential.TokenCookie); err == nil && cookie.Value != "" {
				m.IncPassed()
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			if wantsHTML(r) {
				m.IncRedirected()
				log.InfoContext(ctx, "redirecting unauthenticated navigation",
					"path", r.URL.Path,
				)
				target := loginPath + "?callbackUrl=" + url.QueryEscape(r.URL.Path)
				http.Redirect(w, r, target, http.StatusFound)
				return
			}

			m.IncRejected()
			log.InfoContext(ctx, "rejecting unauthenticated API request",
				"path", r.URL.Path,
			)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"Authentication required"}`))
		})
	}
}

// wantsHTML distinguishes a browser navigation from an API/XHR call.
func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

// NewRouter builds the gate: health and metrics endpoints, an ungated login
// page, and everything else gated and reverse-proxied to the upstream app.
func NewRouter(cfg config.Gate, log *slog.Logger, m *metrics.Metrics) (http.Handler, error) {
	upstream, err := url.Parse(cfg.UpstreamURL)
	if err != nil {
		return nil, fmt.Errorf("parse upstream URL: %w", err)
	}
	proxy := httputil.NewSingleHostReverseProxy(upstream)

	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// The login page itself must stay reachable or nobody can ever get in.
	r.Handle(cfg.LoginPath, proxy)
	r.Handle(cfg.LoginPath+"/*", proxy)

	r.Group(func(gated chi.Router) {
		gated.Use(RequireToken(cfg.LoginPath, log, m))
		gated.Handle("/*", proxy)
	})

	return r, nil
}
