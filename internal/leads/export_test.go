package leads

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/neighborhoodkrew/krew-leads-platform/internal/kv"
)

func TestExportEmptyCollection(t *testing.T) {
	exporter := NewExporter(kv.NewMemoryStore())

	_, err := exporter.Export(context.Background())
	if !errors.Is(err, ErrNoLeads) {
		t.Fatalf("expected ErrNoLeads, got %v", err)
	}
}

func TestExportCorruptCollection(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	if err := store.Set(ctx, kv.KeyLeads, []byte(`{broken`)); err != nil {
		t.Fatal(err)
	}

	_, err := NewExporter(store).Export(ctx)
	if !errors.Is(err, ErrNoLeads) {
		t.Fatalf("expected ErrNoLeads for corrupt data, got %v", err)
	}
}

func TestExportHeaderUnionFirstSeenOrder(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	if err := store.Set(ctx, kv.KeyLeads, []byte(`[{"a":1,"b":2},{"a":3,"c":4}]`)); err != nil {
		t.Fatal(err)
	}

	doc, err := NewExporter(store).Export(ctx)
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}

	want := "a,b,c\n1,2,\n3,,4"
	if string(doc.Data) != want {
		t.Errorf("Export = %q, want %q", doc.Data, want)
	}
	if doc.Filename != "neighborhood-krew-leads.csv" {
		t.Errorf("unexpected filename %q", doc.Filename)
	}
	if doc.ContentType != "text/csv" {
		t.Errorf("unexpected content type %q", doc.ContentType)
	}
}

func TestExportEscaping(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	blob := `[{"name":"Krew, Inc.","notes":"stairs \"steep\"\nno elevator","plain":"ok"}]`
	if err := store.Set(ctx, kv.KeyLeads, []byte(blob)); err != nil {
		t.Fatal(err)
	}

	doc, err := NewExporter(store).Export(ctx)
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}

	lines := strings.SplitN(string(doc.Data), "\n", 2)
	if lines[0] != "name,notes,plain" {
		t.Errorf("header = %q", lines[0])
	}
	want := "\"Krew, Inc.\",\"stairs \"\"steep\"\"\nno elevator\",ok"
	if lines[1] != want {
		t.Errorf("row = %q, want %q", lines[1], want)
	}
}

func TestExportRealLeadShape(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	repo := NewKVRepository(store)

	form := DefaultForm()
	form.Name = "Dana"
	form.FromZip = "19103"
	form.ToZip = "27949"
	lead := &Lead{ID: "lead-1", QuoteForm: form, LeadScore: Score(form)}
	if err := repo.Append(ctx, lead); err != nil {
		t.Fatal(err)
	}

	doc, err := NewExporter(store).Export(ctx)
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}

	out := string(doc.Data)
	if !strings.HasPrefix(out, "id,name,email,phone,fromZip,toZip,date,size,services,timing,budget,notes,leadScore,createdAt") {
		t.Errorf("unexpected header line: %q", strings.SplitN(out, "\n", 2)[0])
	}
	if !strings.Contains(out, `"{""packing"":false,""junk"":false,""assembly"":true,""longCarry"":false,""freight"":false}"`) {
		t.Errorf("services cell not exported as escaped JSON: %q", out)
	}
	if strings.HasSuffix(out, "\n") {
		t.Error("document must not end with a trailing newline")
	}
}

func TestExportNullAndMissingRenderEmpty(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	if err := store.Set(ctx, kv.KeyLeads, []byte(`[{"a":null,"b":"x"},{"b":"y"}]`)); err != nil {
		t.Fatal(err)
	}

	doc, err := NewExporter(store).Export(ctx)
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	if string(doc.Data) != "a,b\n,x\n,y" {
		t.Errorf("Export = %q", doc.Data)
	}
}
