package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus counters for gate decisions. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	RequestsPassed     prometheus.Counter
	RequestsRedirected prometheus.Counter
	RequestsRejected   prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		RequestsPassed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "staffdesk_gate_requests_passed_total",
			Help: "Total number of requests passed through with an auth cookie present",
		}),
		RequestsRedirected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "staffdesk_gate_requests_redirected_total",
			Help: "Total number of browser navigations redirected to the login page",
		}),
		RequestsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "staffdesk_gate_requests_rejected_total",
			Help: "Total number of API requests rejected with 401 for a missing auth cookie",
		}),
	}
}

func (m *Metrics) IncPassed() {
	if m == nil {
		return
	}
	m.RequestsPassed.Inc()
}

func (m *Metrics) IncRedirected() {
	if m == nil {
		return
	}
	m.RequestsRedirected.Inc()
}

func (m *Metrics) IncRejected() {
	if m == nil {
		return
	}
	m.RequestsRejected.Inc()
}
