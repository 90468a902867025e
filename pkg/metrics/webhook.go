package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// WebhookMetrics records ingestion outcomes for processor webhooks.
type WebhookMetrics struct {
	duration          *prometheus.HistogramVec
	outcomes          *prometheus.CounterVec
	signatureFailures *prometheus.CounterVec
}

// NewWebhookMetrics registers the webhook metrics on the provided registerer.
func NewWebhookMetrics(reg prometheus.Registerer) *WebhookMetrics {
	if reg == nil {
		return &WebhookMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "webhook_duration_seconds",
		Help:    "Duration of webhook handling in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"processor"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_events_total",
		Help: "Processed webhook events by processor, kind, and outcome.",
	}, []string{"processor", "kind", "outcome"})
	signatureFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_signature_failures_total",
		Help: "Webhook deliveries rejected during signature verification.",
	}, []string{"processor"})
	reg.MustRegister(duration, outcomes, signatureFailures)
	return &WebhookMetrics{
		duration:          duration,
		outcomes:          outcomes,
		signatureFailures: signatureFailures,
	}
}

// ObserveDuration records handling duration for the named processor.
func (m *WebhookMetrics) ObserveDuration(processor string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(processor)).Observe(duration.Seconds())
}

// IncOutcome increments the outcome counter for a processed event.
func (m *WebhookMetrics) IncOutcome(processor, kind, outcome string) {
	if m == nil || m.outcomes == nil {
		return
	}
	m.outcomes.WithLabelValues(normalizeLabel(processor), normalizeLabel(kind), normalizeLabel(outcome)).Inc()
}

// IncSignatureFailure increments the rejection counter for the processor.
func (m *WebhookMetrics) IncSignatureFailure(processor string) {
	if m == nil || m.signatureFailures == nil {
		return
	}
	m.signatureFailures.WithLabelValues(normalizeLabel(processor)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
