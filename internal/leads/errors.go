package leads

import "errors"

// ErrNoLeads is returned by the exporter when the collection is empty.
// Callers treat it as a benign "nothing to export" condition, not a failure.
var ErrNoLeads = errors.New("no leads to export")
