// Package metrics exposes Prometheus instrumentation for the lead funnel.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// FunnelMetrics exposes counters/histograms for the lead-capture flows.
type FunnelMetrics struct {
	leadsCreated    prometheus.Counter
	submitRejected  prometheus.Counter
	newsletterTotal *prometheus.CounterVec
	webhookTotal    *prometheus.CounterVec
	webhookLatency  prometheus.Histogram
	exportsTotal    *prometheus.CounterVec
}

// NewFunnelMetrics registers the funnel metrics on reg (or the default
// registerer when nil).
func NewFunnelMetrics(reg prometheus.Registerer) *FunnelMetrics {
	m := &FunnelMetrics{
		leadsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nkrew",
			Subsystem: "funnel",
			Name:      "leads_created_total",
			Help:      "Total leads persisted from funnel submissions",
		}),
		submitRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nkrew",
			Subsystem: "funnel",
			Name:      "submit_rejected_total",
			Help:      "Total submit attempts rejected before the final step",
		}),
		newsletterTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nkrew",
			Subsystem: "newsletter",
			Name:      "subscriptions_total",
			Help:      "Total newsletter subscription attempts",
		}, []string{"outcome"}),
		webhookTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nkrew",
			Subsystem: "webhook",
			Name:      "dispatch_total",
			Help:      "Total outbound webhook dispatches",
		}, []string{"type", "status"}),
		webhookLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "nkrew",
			Subsystem: "webhook",
			Name:      "dispatch_latency_seconds",
			Help:      "Latency of outbound webhook dispatches",
			Buckets:   prometheus.DefBuckets,
		}),
		exportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nkrew",
			Subsystem: "leads",
			Name:      "csv_exports_total",
			Help:      "Total CSV export requests",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.leadsCreated,
		m.submitRejected,
		m.newsletterTotal,
		m.webhookTotal,
		m.webhookLatency,
		m.exportsTotal,
	)
	return m
}

// ObserveLeadCreated counts one persisted lead.
func (m *FunnelMetrics) ObserveLeadCreated() {
	if m == nil {
		return
	}
	m.leadsCreated.Inc()
}

// ObserveSubmitRejected counts a submit attempt outside the final step.
func (m *FunnelMetrics) ObserveSubmitRejected() {
	if m == nil {
		return
	}
	m.submitRejected.Inc()
}

// ObserveNewsletter counts a subscription attempt; outcome is "subscribed"
// or "duplicate".
func (m *FunnelMetrics) ObserveNewsletter(outcome string) {
	if m == nil {
		return
	}
	m.newsletterTotal.WithLabelValues(outcome).Inc()
}

// ObserveWebhookDispatch counts one dispatch and records its latency.
func (m *FunnelMetrics) ObserveWebhookDispatch(payloadType, status string, seconds float64) {
	if m == nil {
		return
	}
	m.webhookTotal.WithLabelValues(payloadType, status).Inc()
	m.webhookLatency.Observe(seconds)
}

// ObserveExport counts an export request; outcome is "ok" or "empty".
func (m *FunnelMetrics) ObserveExport(outcome string) {
	if m == nil {
		return
	}
	m.exportsTotal.WithLabelValues(outcome).Inc()
}
