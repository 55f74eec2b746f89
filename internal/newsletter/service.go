package newsletter

import (
	"context"

	"github.com/neighborhoodkrew/krew-leads-platform/internal/observability/metrics"
	"github.com/neighborhoodkrew/krew-leads-platform/internal/webhook"
	"github.com/neighborhoodkrew/krew-leads-platform/pkg/logging"
)

// Service combines the subscription store with the promo webhook: a promo
// opt-in is a subscription followed by one best-effort webhook dispatch.
type Service struct {
	store      *Store
	dispatcher *webhook.Dispatcher
	metrics    *metrics.FunnelMetrics
	logger     *logging.Logger
}

// NewService creates a newsletter service.
func NewService(store *Store, dispatcher *webhook.Dispatcher, m *metrics.FunnelMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: store, dispatcher: dispatcher, metrics: m, logger: logger}
}

// Subscribe records the email once; idempotent.
func (s *Service) Subscribe(ctx context.Context, email string) (added bool, err error) {
	added, err = s.store.Subscribe(ctx, email)
	if err != nil {
		return false, err
	}
	if added {
		s.metrics.ObserveNewsletter("subscribed")
		s.logger.Info("newsletter subscription added", "email", email)
	} else {
		s.metrics.ObserveNewsletter("duplicate")
	}
	return added, nil
}

// PromoOptIn subscribes the email and notifies the configured webhook. The
// subscription is saved even when the webhook is unconfigured or fails; the
// dispatch result tells the caller which of those happened.
func (s *Service) PromoOptIn(ctx context.Context, email string) (webhook.Result, error) {
	if _, err := s.Subscribe(ctx, email); err != nil {
		return webhook.Result{}, err
	}
	return s.dispatcher.Dispatch(ctx, webhook.NewPromoOptIn(email)), nil
}
