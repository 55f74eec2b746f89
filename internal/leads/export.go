package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/neighborhoodkrew/krew-leads-platform/internal/kv"
)

// ExportFilename is the name of the downloadable CSV artifact.
const ExportFilename = "neighborhood-krew-leads.csv"

// Document is a downloadable export artifact.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Exporter serializes the stored lead collection to CSV.
//
// It reads the raw JSON blob rather than going through the typed repository:
// the header row is the union of field names across all records in
// first-appearance order, so records written by older versions (or edited by
// hand) still export with whatever fields they carry.
type Exporter struct {
	store kv.Store
}

// NewExporter creates an exporter over the given store.
func NewExporter(store kv.Store) *Exporter {
	return &Exporter{store: store}
}

// Export renders every stored lead as CSV. Returns ErrNoLeads when the
// collection is empty, missing or unreadable.
func (e *Exporter) Export(ctx context.Context) (*Document, error) {
	data, err := e.store.Get(ctx, kv.KeyLeads)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, ErrNoLeads
	}
	if err != nil {
		return nil, err
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		// Corrupt collections degrade to empty everywhere else; exporting
		// one is likewise just "nothing to export".
		return nil, ErrNoLeads
	}

	var (
		headers []string
		seen    = map[string]struct{}{}
		rows    []map[string]string
	)
	for _, record := range records {
		keys, values, err := recordFields(record)
		if err != nil {
			continue
		}
		for _, key := range keys {
			if _, ok := seen[key]; !ok {
				seen[key] = struct{}{}
				headers = append(headers, key)
			}
		}
		rows = append(rows, values)
	}
	if len(rows) == 0 {
		return nil, ErrNoLeads
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, joinRow(headers, nil))
	for _, row := range rows {
		lines = append(lines, joinRow(headers, row))
	}

	return &Document{
		Filename:    ExportFilename,
		ContentType: "text/csv",
		Data:        []byte(strings.Join(lines, "\n")),
	}, nil
}

// recordFields walks one JSON object token by token, preserving the key order
// of the stored document.
func recordFields(record json.RawMessage) ([]string, map[string]string, error) {
	dec := json.NewDecoder(bytes.NewReader(record))

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("leads: record is not an object")
	}

	var (
		keys   []string
		values = map[string]string{}
	)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("leads: unexpected key token %v", keyTok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, nil, err
		}

		keys = append(keys, key)
		values[key] = renderCell(value)
	}
	return keys, values, nil
}

// renderCell turns one JSON value into its CSV cell text. Strings lose their
// quotes, null becomes empty, and composite values (the services object) stay
// compact JSON.
func renderCell(value json.RawMessage) string {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return ""
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err == nil {
			return buf.String()
		}
	}
	return string(trimmed)
}

// joinRow renders one CSV line. A nil value map renders the headers
// themselves.
func joinRow(headers []string, values map[string]string) string {
	cells := make([]string, len(headers))
	for i, header := range headers {
		if values == nil {
			cells[i] = escapeCell(header)
			continue
		}
		cells[i] = escapeCell(values[header])
	}
	return strings.Join(cells, ",")
}

// escapeCell quotes a cell when it contains a separator, quote or line break,
// doubling embedded quotes, so any value survives a round trip.
func escapeCell(cell string) string {
	if !strings.ContainsAny(cell, ",\"\n\r") {
		return cell
	}
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}
