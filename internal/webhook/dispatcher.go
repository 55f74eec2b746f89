package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/neighborhoodkrew/krew-leads-platform/internal/observability/metrics"
	"github.com/neighborhoodkrew/krew-leads-platform/pkg/logging"
)

// Status is the outcome of a dispatch attempt.
type Status string

// Dispatch outcomes. Every Dispatch call ends in exactly one of these.
const (
	StatusDelivered Status = "delivered"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Result reports how a dispatch ended. Err is set only for StatusFailed.
type Result struct {
	Status Status `json:"status"`
	Err    string `json:"error,omitempty"`
}

// Delivered reports whether the endpoint accepted the payload.
func (r Result) Delivered() bool { return r.Status == StatusDelivered }

func failed(err error) Result {
	return Result{Status: StatusFailed, Err: err.Error()}
}

// PromoOptInPayload notifies the endpoint of a promo-code opt-in.
type PromoOptInPayload struct {
	Type  string `json:"type"`
	Email string `json:"email"`
}

// NewPromoOptIn builds the promo opt-in payload for an email address.
func NewPromoOptIn(email string) PromoOptInPayload {
	return PromoOptInPayload{Type: "promo_opt_in", Email: email}
}

// TestPayload is the operator-triggered connectivity probe.
type TestPayload struct {
	Type string    `json:"type"`
	Now  time.Time `json:"now"`
}

// NewTest builds a connectivity-test payload stamped with now.
func NewTest(now time.Time) TestPayload {
	return TestPayload{Type: "test", Now: now}
}

// Dispatcher issues single-attempt POST notifications. Transport and HTTP
// failures become Result values; Dispatch never returns an error to its
// caller and never retries.
type Dispatcher struct {
	config  *ConfigStore
	client  *http.Client
	logger  *logging.Logger
	metrics *metrics.FunnelMetrics
	tracer  trace.Tracer
}

// NewDispatcher creates a dispatcher. A zero timeout defaults to 10s so a
// dead endpoint cannot hang the calling flow indefinitely.
func NewDispatcher(config *ConfigStore, timeout time.Duration, logger *logging.Logger, m *metrics.FunnelMetrics) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Dispatcher{
		config:  config,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
		metrics: m,
		tracer:  otel.Tracer("nkrew.internal.webhook"),
	}
}

// Dispatch POSTs the payload as JSON to the configured endpoint. With no
// endpoint configured the result is StatusSkipped, a non-error condition.
func (d *Dispatcher) Dispatch(ctx context.Context, payload any) Result {
	ctx, span := d.tracer.Start(ctx, "webhook.dispatch")
	defer span.End()

	start := time.Now()
	payloadType := payloadTypeOf(payload)
	result := d.dispatch(ctx, payload)
	d.metrics.ObserveWebhookDispatch(payloadType, string(result.Status), time.Since(start).Seconds())

	switch result.Status {
	case StatusDelivered:
		d.logger.Info("webhook delivered", "type", payloadType)
	case StatusSkipped:
		d.logger.Debug("webhook skipped, no endpoint configured", "type", payloadType)
	case StatusFailed:
		d.logger.Warn("webhook dispatch failed", "type", payloadType, "error", result.Err)
	}
	return result
}

func (d *Dispatcher) dispatch(ctx context.Context, payload any) Result {
	url, err := d.config.URL(ctx)
	if err != nil {
		return failed(err)
	}
	if url == "" {
		return Result{Status: StatusSkipped}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return failed(fmt.Errorf("webhook: marshal payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return failed(fmt.Errorf("webhook: build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return failed(fmt.Errorf("webhook: post: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failed(fmt.Errorf("webhook: endpoint returned status %d", resp.StatusCode))
	}
	return Result{Status: StatusDelivered}
}

func payloadTypeOf(payload any) string {
	switch p := payload.(type) {
	case PromoOptInPayload:
		return p.Type
	case TestPayload:
		return p.Type
	default:
		return "unknown"
	}
}
