package newsletter

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/neighborhoodkrew/krew-leads-platform/pkg/logging"
)

// Handler serves the public newsletter endpoint.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a newsletter handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

type subscribeRequest struct {
	Email string `json:"email"`
}

type subscribeResponse struct {
	Subscribed bool `json:"subscribed"`
}

// Subscribe handles POST /newsletter/subscribe requests. Subscribing an
// already-known email succeeds and reports subscribed=false.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	added, err := h.service.Subscribe(r.Context(), req.Email)
	if errors.Is(err, ErrEmptyEmail) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.Error("failed to subscribe", "error", err)
		http.Error(w, "failed to subscribe", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(subscribeResponse{Subscribed: added})
}
