package gallery

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/neighborhoodkrew/krew-leads-platform/pkg/logging"
)

// maxUploadBytes caps one upload request; images are demo-scale.
const maxUploadBytes = 32 << 20

// Handler serves the gallery endpoints.
type Handler struct {
	store  *Store
	logger *logging.Logger
}

// NewHandler creates a gallery handler.
func NewHandler(store *Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// ListResponse is the response for listing gallery items.
type ListResponse struct {
	Items []Item `json:"items"`
	Count int    `json:"count"`
}

// List handles GET /gallery requests.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list gallery", "error", err)
		http.Error(w, "failed to list gallery", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListResponse{Items: items, Count: len(items)})
}

type addURLRequest struct {
	URL string `json:"url"`
}

// AddURL handles POST /gallery/url requests.
func (h *Handler) AddURL(w http.ResponseWriter, r *http.Request) {
	var req addURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	item, err := h.store.AddURL(r.Context(), req.URL)
	if errors.Is(err, ErrEmptyURL) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.Error("failed to add gallery url", "error", err)
		http.Error(w, "failed to add gallery item", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(item)
}

// Upload handles POST /gallery/upload multipart requests. Every file in the
// "photos" field is embedded; the batch lands ahead of existing items in one
// write.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid multipart body", http.StatusBadRequest)
		return
	}
	if r.MultipartForm == nil || len(r.MultipartForm.File["photos"]) == 0 {
		http.Error(w, "no files in request", http.StatusBadRequest)
		return
	}

	var uploads []Upload
	for _, header := range r.MultipartForm.File["photos"] {
		file, err := header.Open()
		if err != nil {
			http.Error(w, "failed to read upload", http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			http.Error(w, "failed to read upload", http.StatusBadRequest)
			return
		}
		uploads = append(uploads, Upload{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	batch, err := h.store.AddFiles(r.Context(), uploads)
	if err != nil {
		h.logger.Error("failed to add gallery uploads", "error", err)
		http.Error(w, "failed to add gallery items", http.StatusInternalServerError)
		return
	}

	h.logger.Info("gallery uploads added", "count", len(batch))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(ListResponse{Items: batch, Count: len(batch)})
}

// Remove handles DELETE /gallery/{index} requests. Removing an out-of-range
// index succeeds without changing anything.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "invalid index", http.StatusBadRequest)
		return
	}

	if err := h.store.RemoveAt(r.Context(), index); err != nil {
		h.logger.Error("failed to remove gallery item", "error", err, "index", index)
		http.Error(w, "failed to remove gallery item", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
