// Package metrics provides Prometheus metrics for the relay.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the relay.
type Metrics struct {
	// Webhook events by final status tag (success, ignored_duplicate, ...).
	WebhookEvents *prometheus.CounterVec

	// Deliveries by channel actually used (text, voice).
	Deliveries *prometheus.CounterVec

	// Voice replies that fell back to text because synthesis or upload failed.
	VoiceFallbacks prometheus.Counter

	// Completion call latency.
	CompletionDuration prometheus.Histogram

	registry *prometheus.Registry
}

// New creates and registers all relay metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{registry: reg}

	m.WebhookEvents = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warelay_webhook_events_total",
			Help: "Inbound webhook events by final status tag",
		},
		[]string{"status"},
	)

	m.Deliveries = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warelay_deliveries_total",
			Help: "Outbound deliveries by channel",
		},
		[]string{"channel"},
	)

	m.VoiceFallbacks = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "warelay_voice_fallbacks_total",
			Help: "Voice replies downgraded to text after a synthesis or upload failure",
		},
	)

	m.CompletionDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "warelay_completion_duration_seconds",
			Help:    "Latency of completion engine calls",
			Buckets: prometheus.DefBuckets,
		},
	)

	return m
}

// Handler returns an HTTP handler exposing the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
