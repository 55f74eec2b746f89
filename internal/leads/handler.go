package leads

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/neighborhoodkrew/krew-leads-platform/internal/observability/metrics"
	"github.com/neighborhoodkrew/krew-leads-platform/pkg/logging"
)

// Handler serves the operator-facing lead endpoints.
type Handler struct {
	repo     Repository
	exporter *Exporter
	metrics  *metrics.FunnelMetrics
	logger   *logging.Logger
}

// NewHandler creates a leads handler.
func NewHandler(repo Repository, exporter *Exporter, m *metrics.FunnelMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, exporter: exporter, metrics: m, logger: logger}
}

// ListResponse is the response for listing leads.
type ListResponse struct {
	Leads []Lead `json:"leads"`
	Count int    `json:"count"`
}

// List handles GET /admin/leads requests.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	leads, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list leads", "error", err)
		http.Error(w, "failed to list leads", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListResponse{Leads: leads, Count: len(leads)})
}

// Export handles GET /admin/leads/export requests, streaming the CSV
// artifact as a download.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	doc, err := h.exporter.Export(r.Context())
	if errors.Is(err, ErrNoLeads) {
		h.metrics.ObserveExport("empty")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "no leads yet to export"})
		return
	}
	if err != nil {
		h.metrics.ObserveExport("error")
		h.logger.Error("failed to export leads", "error", err)
		http.Error(w, "failed to export leads", http.StatusInternalServerError)
		return
	}

	h.metrics.ObserveExport("ok")
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.Write(doc.Data)
}
