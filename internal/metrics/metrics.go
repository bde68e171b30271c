// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "hearsay_http_requests_total", Help: "Total HTTP requests"},
		[]string{"route", "method", "status"},
	)
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hearsay_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	InFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "hearsay_http_in_flight_requests", Help: "In-flight HTTP requests"},
	)
	SSOLogins = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "hearsay_sso_logins_total", Help: "SSO sign-ins by provider and outcome"},
		[]string{"provider", "outcome"},
	)
	AttemptsRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "hearsay_lesson_attempts_total", Help: "Lesson attempts recorded"},
		[]string{"completed"},
	)
)

// Register adds every collector to reg. Collectors already registered are
// tolerated so tests and the server can share the default registry.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{RequestsTotal, RequestDuration, InFlight, SSOLogins, AttemptsRecorded} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveSSOLogin counts one sign-in. outcome is a resolve outcome or "failed".
func ObserveSSOLogin(provider, outcome string) {
	SSOLogins.WithLabelValues(provider, outcome).Inc()
}

// ObserveAttempt counts one recorded lesson attempt.
func ObserveAttempt(completed bool) {
	label := "false"
	if completed {
		label = "true"
	}
	AttemptsRecorded.WithLabelValues(label).Inc()
}
