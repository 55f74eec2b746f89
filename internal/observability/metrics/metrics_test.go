package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestFunnelMetricsObserve(t *testing.T) {
	m := NewFunnelMetrics(prometheus.NewRegistry())
	m.ObserveLeadCreated()
	m.ObserveSubmitRejected()
	m.ObserveNewsletter("subscribed")
	m.ObserveWebhookDispatch("promo_opt_in", "delivered", 0.25)
	m.ObserveExport("ok")
}

func TestFunnelMetricsNilSafe(t *testing.T) {
	var m *FunnelMetrics
	m.ObserveLeadCreated()
	m.ObserveSubmitRejected()
	m.ObserveNewsletter("duplicate")
	m.ObserveWebhookDispatch("test", "failed", 0.1)
	m.ObserveExport("empty")
}

func TestFunnelMetricsCustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewFunnelMetrics(reg)
	m.ObserveWebhookDispatch("test", "skipped", 0)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	found := false
	for _, fam := range families {
		if fam.GetName() == "nkrew_webhook_dispatch_total" {
			found = true
		}
	}
	if !found {
		t.Error("expected nkrew_webhook_dispatch_total to be registered")
	}
}
