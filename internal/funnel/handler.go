package funnel

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/neighborhoodkrew/krew-leads-platform/internal/leads"
	"github.com/neighborhoodkrew/krew-leads-platform/internal/newsletter"
	"github.com/neighborhoodkrew/krew-leads-platform/pkg/logging"
)

// Handler serves the public funnel endpoints.
type Handler struct {
	manager    *Manager
	newsletter *newsletter.Service
	logger     *logging.Logger
}

// NewHandler creates a funnel handler.
func NewHandler(manager *Manager, newsletterSvc *newsletter.Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{manager: manager, newsletter: newsletterSvc, logger: logger}
}

// sessionResponse is the wire view of a session. The live score lets the UI
// show "your lead quality" as the visitor fills the form.
type sessionResponse struct {
	ID        string          `json:"id"`
	Step      string          `json:"step"`
	StepIndex int             `json:"stepIndex"`
	Form      leads.QuoteForm `json:"form"`
	LeadScore int             `json:"leadScore"`
	Submitted bool            `json:"submitted"`
	Lead      *leads.Lead     `json:"lead,omitempty"`
}

func toResponse(s Session) sessionResponse {
	return sessionResponse{
		ID:        s.ID,
		Step:      s.Step.String(),
		StepIndex: int(s.Step),
		Form:      s.Form,
		LeadScore: leads.Score(s.Form),
		Submitted: s.Step == StepSubmitted,
		Lead:      s.Lead,
	}
}

// Start handles POST /funnel requests: opens a new session.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	session := h.manager.Start()
	writeJSON(w, http.StatusCreated, toResponse(*session))
}

// Get handles GET /funnel/{id} requests.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.manager.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(session))
}

// UpdateFields handles PATCH /funnel/{id}/fields requests. The body is a JSON
// object of form fields; unknown keys are ignored.
func (h *Handler) UpdateFields(w http.ResponseWriter, r *http.Request) {
	var fields map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := h.manager.UpdateFields(chi.URLParam(r, "id"), fields)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(session))
}

// Advance handles POST /funnel/{id}/advance requests.
func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	session, err := h.manager.Advance(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(session))
}

// Retreat handles POST /funnel/{id}/retreat requests.
func (h *Handler) Retreat(w http.ResponseWriter, r *http.Request) {
	session, err := h.manager.Retreat(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(session))
}

// Reset handles POST /funnel/{id}/reset requests.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	session, err := h.manager.Reset(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(session))
}

// Submit handles POST /funnel/{id}/submit requests.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	lead, err := h.manager.Submit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]*leads.Lead{"lead": lead})
}

type promoRequest struct {
	Email string `json:"email"`
}

// Promo handles POST /funnel/{id}/promo requests: opt the visitor into the
// promo list. The body email wins; when absent the session form's email is
// used.
func (h *Handler) Promo(w http.ResponseWriter, r *http.Request) {
	session, err := h.manager.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req promoRequest
	if r.Body != nil {
		// A missing or empty body just means "use the form email".
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		email = strings.TrimSpace(session.Form.Email)
	}

	result, err := h.newsletter.PromoOptIn(r.Context(), email)
	if err != nil {
		if errors.Is(err, newsletter.ErrEmptyEmail) {
			http.Error(w, "email is required", http.StatusBadRequest)
			return
		}
		h.logger.Error("promo opt-in failed", "error", err)
		http.Error(w, "failed to save subscription", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		http.Error(w, "funnel session not found", http.StatusNotFound)
	case errors.Is(err, ErrNotReadyToSubmit):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "complete the funnel before submitting"})
	default:
		h.logger.Error("funnel request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
