package leads

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/neighborhoodkrew/krew-leads-platform/internal/kv"
	"github.com/neighborhoodkrew/krew-leads-platform/pkg/logging"
)

func newTestHandler(t *testing.T) (*Handler, *KVRepository) {
	t.Helper()
	store := kv.NewMemoryStore()
	repo := NewKVRepository(store)
	return NewHandler(repo, NewExporter(store), nil, logging.Default()), repo
}

func TestListLeadsEmpty(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/leads", nil)
	w := httptest.NewRecorder()
	handler.List(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp ListResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 0 {
		t.Errorf("expected count 0, got %d", resp.Count)
	}
}

func TestListLeads(t *testing.T) {
	handler, repo := newTestHandler(t)

	form := DefaultForm()
	form.Name = "Dana"
	if err := repo.Append(context.Background(), &Lead{ID: "l1", QuoteForm: form, LeadScore: Score(form)}); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/leads", nil)
	w := httptest.NewRecorder()
	handler.List(w, req)

	var resp ListResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 1 || resp.Leads[0].Name != "Dana" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestExportNoLeads(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/leads/export", nil)
	w := httptest.NewRecorder()
	handler.Export(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "no leads yet to export") {
		t.Errorf("expected empty-export message, got %q", w.Body.String())
	}
}

func TestExportDownload(t *testing.T) {
	handler, repo := newTestHandler(t)

	form := DefaultForm()
	form.Name = "Dana"
	if err := repo.Append(context.Background(), &Lead{ID: "l1", QuoteForm: form}); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/leads/export", nil)
	w := httptest.NewRecorder()
	handler.Export(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("expected text/csv, got %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, ExportFilename) {
		t.Errorf("expected filename in disposition, got %q", cd)
	}
	if !strings.Contains(w.Body.String(), "Dana") {
		t.Error("expected lead data in CSV body")
	}
}
