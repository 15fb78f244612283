package server

import (
	"net/http"

	"github.com/HendryAvila/kanbanflow-mcp/internal/users"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sony/gobreaker"
)

// remoteMetrics covers the outbound side: KanbanFlow HTTP calls, the
// circuit breaker and user directory loads.
type remoteMetrics struct {
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	breakerState prometheus.Gauge
	userLoads    *prometheus.CounterVec
}

func newRemoteMetrics(reg prometheus.Registerer) *remoteMetrics {
	m := &remoteMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "kanbanflow_mcp",
				Name:      "remote_requests_total",
				Help:      "Requests sent to the KanbanFlow API by status code and method",
			},
			[]string{"code", "method"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "kanbanflow_mcp",
				Name:      "remote_request_duration_seconds",
				Help:      "KanbanFlow API latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"code", "method"},
		),
		breakerState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "kanbanflow_mcp",
			Name:      "breaker_state",
			Help:      "KanbanFlow circuit breaker state: 0 closed, 1 half-open, 2 open",
		}),
		userLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "kanbanflow_mcp",
				Name:      "user_directory_loads_total",
				Help:      "User directory loads by outcome",
			},
			[]string{"outcome"},
		),
	}
	reg.MustRegister(m.requests, m.duration, m.breakerState, m.userLoads)
	return m
}

// transport wraps next so every KanbanFlow call is counted and timed.
func (m *remoteMetrics) transport(next http.RoundTripper) http.RoundTripper {
	return promhttp.InstrumentRoundTripperCounter(m.requests,
		promhttp.InstrumentRoundTripperDuration(m.duration, next),
	)
}

func (m *remoteMetrics) breakerChanged(to gobreaker.State) {
	m.breakerState.Set(float64(to))
}

func (m *remoteMetrics) userLoad(e users.LoadEvent) {
	outcome := "success"
	switch {
	case e.Err != nil:
		outcome = "error"
	case e.Discarded:
		outcome = "discarded"
	}
	m.userLoads.WithLabelValues(outcome).Inc()
}
