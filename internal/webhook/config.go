// Package webhook dispatches best-effort JSON notifications to an
// operator-configured HTTP endpoint.
package webhook

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/neighborhoodkrew/krew-leads-platform/internal/kv"
)

// ConfigStore persists the operator's webhook URL. An empty URL means
// dispatch is disabled.
type ConfigStore struct {
	store kv.Store
}

// NewConfigStore creates a config store.
func NewConfigStore(store kv.Store) *ConfigStore {
	return &ConfigStore{store: store}
}

// URL returns the configured endpoint, or "" when none is set.
func (s *ConfigStore) URL(ctx context.Context) (string, error) {
	data, err := s.store.Get(ctx, kv.KeyWebhookURL)
	if errors.Is(err, kv.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("webhook: read config: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// SetURL stores the endpoint. An empty URL clears the configuration.
func (s *ConfigStore) SetURL(ctx context.Context, url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		if err := s.store.Delete(ctx, kv.KeyWebhookURL); err != nil {
			return fmt.Errorf("webhook: clear config: %w", err)
		}
		return nil
	}
	if err := s.store.Set(ctx, kv.KeyWebhookURL, []byte(url)); err != nil {
		return fmt.Errorf("webhook: save config: %w", err)
	}
	return nil
}
