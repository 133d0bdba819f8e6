package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus counters for session lifecycle operations.
// A nil *Metrics is valid and records nothing, so tests and embedders that
// do not scrape can skip registration entirely.
type Metrics struct {
	LoginSuccess           prometheus.Counter
	LoginFailure           prometheus.Counter
	Logouts                prometheus.Counter
	BootstrapInvalidations prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		LoginSuccess: promauto.NewCounter(prometheus.CounterOpts{
			Name: "staffdesk_session_logins_total",
			Help: "Total number of successful logins",
		}),
		LoginFailure: promauto.NewCounter(prometheus.CounterOpts{
			Name: "staffdesk_session_login_failures_total",
			Help: "Total number of failed login attempts",
		}),
		Logouts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "staffdesk_session_logouts_total",
			Help: "Total number of logouts",
		}),
		BootstrapInvalidations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "staffdesk_session_bootstrap_invalidations_total",
			Help: "Total number of stored tokens invalidated during session bootstrap",
		}),
	}
}

func (m *Metrics) IncLoginSuccess() {
	if m == nil {
		return
	}
	m.LoginSuccess.Inc()
}

func (m *Metrics) IncLoginFailure() {
	if m == nil {
		return
	}
	m.LoginFailure.Inc()
}

func (m *Metrics) IncLogouts() {
	if m == nil {
		return
	}
	m.Logouts.Inc()
}

func (m *Metrics) IncBootstrapInvalidations() {
	if m == nil {
		return
	}
	m.BootstrapInvalidations.Inc()
}
