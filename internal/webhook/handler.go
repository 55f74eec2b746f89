package webhook

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/neighborhoodkrew/krew-leads-platform/pkg/logging"
)

// Handler serves the operator webhook-configuration endpoints.
type Handler struct {
	config     *ConfigStore
	dispatcher *Dispatcher
	logger     *logging.Logger
	now        func() time.Time
}

// NewHandler creates a webhook admin handler.
func NewHandler(config *ConfigStore, dispatcher *Dispatcher, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		config:     config,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

type configPayload struct {
	URL string `json:"url"`
}

// GetConfig handles GET /admin/webhook requests.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	url, err := h.config.URL(r.Context())
	if err != nil {
		h.logger.Error("failed to read webhook config", "error", err)
		http.Error(w, "failed to read webhook config", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(configPayload{URL: url})
}

// UpdateConfig handles PUT /admin/webhook requests. An empty URL clears the
// configuration, turning dispatch into a no-op.
func (h *Handler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req configPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.config.SetURL(r.Context(), req.URL); err != nil {
		h.logger.Error("failed to save webhook config", "error", err)
		http.Error(w, "failed to save webhook config", http.StatusInternalServerError)
		return
	}

	h.logger.Info("webhook config updated", "configured", req.URL != "")
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(configPayload{URL: req.URL})
}

// Test handles POST /admin/webhook/test requests: one connectivity probe,
// result reported as JSON regardless of outcome.
func (h *Handler) Test(w http.ResponseWriter, r *http.Request) {
	result := h.dispatcher.Dispatch(r.Context(), NewTest(h.now().UTC()))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
