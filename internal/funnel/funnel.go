// Package funnel implements the multi-step quote wizard: a per-session state
// machine that collects the quote form, scores it on submission and persists
// the resulting lead.
package funnel

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/neighborhoodkrew/krew-leads-platform/internal/leads"
	"github.com/neighborhoodkrew/krew-leads-platform/internal/observability/metrics"
	"github.com/neighborhoodkrew/krew-leads-platform/pkg/logging"
)

// Step is a position in the wizard.
type Step int

// Wizard steps in order. Submitted is terminal.
const (
	StepContact Step = iota
	StepMoveDetails
	StepServices
	StepBudget
	StepSubmitted
)

var stepNames = map[Step]string{
	StepContact:     "Contact",
	StepMoveDetails: "Move Details",
	StepServices:    "Services",
	StepBudget:      "Budget",
	StepSubmitted:   "Submitted",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "Unknown"
}

var (
	// ErrSessionNotFound is returned for unknown or discarded session IDs.
	ErrSessionNotFound = errors.New("funnel: session not found")

	// ErrNotReadyToSubmit is returned when Submit is called anywhere but the
	// final form step. Submitting an already-submitted session is rejected
	// the same way, so one session yields at most one lead.
	ErrNotReadyToSubmit = errors.New("funnel: submit is only allowed from the final step")
)

// Session is one visitor's progress through the wizard.
type Session struct {
	ID        string
	Step      Step
	Form      leads.QuoteForm
	Lead      *leads.Lead // set once submitted
	UpdatedAt time.Time
}

// LeadNotifier is told about every persisted lead, best-effort.
type LeadNotifier interface {
	NotifyNewLead(ctx context.Context, lead *leads.Lead)
}

// Manager owns all funnel sessions and drives their state machines. All
// operations are serialized by one mutex; sessions are demo-scale.
//
// TODO: expire sessions that never reach Submit once the funnel is embedded
// on the live site.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	repo     leads.Repository
	notifier LeadNotifier
	metrics  *metrics.FunnelMetrics
	logger   *logging.Logger
	now      func() time.Time
}

// NewManager creates a session manager. notifier may be nil.
func NewManager(repo leads.Repository, notifier LeadNotifier, m *metrics.FunnelMetrics, logger *logging.Logger) *Manager {
	if logger == nil {
		logger = logging.Default()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		repo:     repo,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// Start opens a fresh session at the Contact step with default form values.
func (m *Manager) Start() *Session {
	session := &Session{
		ID:        uuid.NewString(),
		Step:      StepContact,
		Form:      leads.DefaultForm(),
		UpdatedAt: m.now().UTC(),
	}

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()

	return session
}

// Get returns a snapshot of the session.
func (m *Manager) Get(id string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return *session, nil
}

// Advance moves forward one step, clamped at Budget. A submitted session is
// left alone.
func (m *Manager) Advance(id string) (Session, error) {
	return m.mutate(id, func(session *Session) {
		if session.Step < StepBudget {
			session.Step++
		}
	})
}

// Retreat moves back one step, clamped at Contact. A submitted session is
// left alone.
func (m *Manager) Retreat(id string) (Session, error) {
	return m.mutate(id, func(session *Session) {
		if session.Step > StepContact && session.Step < StepSubmitted {
			session.Step--
		}
	})
}

// Reset returns the session to Contact with a fresh default form, discarding
// anything entered so far.
func (m *Manager) Reset(id string) (Session, error) {
	return m.mutate(id, func(session *Session) {
		session.Step = StepContact
		session.Form = leads.DefaultForm()
		session.Lead = nil
	})
}

// UpdateFields applies field updates to the in-progress form. No validation
// happens here; unknown keys and malformed values are ignored so a stale or
// creative client can never wedge a session.
func (m *Manager) UpdateFields(id string, fields map[string]json.RawMessage) (Session, error) {
	return m.mutate(id, func(session *Session) {
		for key, value := range fields {
			applyField(&session.Form, key, value)
		}
	})
}

// Submit scores the form, persists the lead and moves the session to
// Submitted. Only legal from the Budget step; exactly one lead is written per
// successful call.
func (m *Manager) Submit(ctx context.Context, id string) (*leads.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.Step != StepBudget {
		m.metrics.ObserveSubmitRejected()
		return nil, ErrNotReadyToSubmit
	}

	lead := &leads.Lead{
		ID:        uuid.NewString(),
		QuoteForm: session.Form,
		LeadScore: leads.Score(session.Form),
		CreatedAt: m.now().UTC(),
	}
	if err := m.repo.Append(ctx, lead); err != nil {
		return nil, err
	}

	session.Step = StepSubmitted
	session.Lead = lead
	session.UpdatedAt = m.now().UTC()

	m.metrics.ObserveLeadCreated()
	m.logger.Info("lead created", "lead_id", lead.ID, "score", lead.LeadScore)

	if m.notifier != nil {
		// Operator notification must never delay or fail the submission.
		go m.notifier.NotifyNewLead(context.WithoutCancel(ctx), lead)
	}
	return lead, nil
}

func (m *Manager) mutate(id string, fn func(*Session)) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	fn(session)
	session.UpdatedAt = m.now().UTC()
	return *session, nil
}

// applyField sets one form field by its JSON name. The services value may be
// a partial object; provided flags overwrite, omitted ones keep their state.
func applyField(form *leads.QuoteForm, key string, value json.RawMessage) {
	switch key {
	case "name":
		setString(value, &form.Name)
	case "email":
		setString(value, &form.Email)
	case "phone":
		setString(value, &form.Phone)
	case "fromZip":
		setString(value, &form.FromZip)
	case "toZip":
		setString(value, &form.ToZip)
	case "date":
		setString(value, &form.Date)
	case "notes":
		setString(value, &form.Notes)
	case "size":
		var s string
		if json.Unmarshal(value, &s) == nil {
			form.Size = leads.HomeSize(s)
		}
	case "timing":
		var s string
		if json.Unmarshal(value, &s) == nil {
			form.Timing = leads.Timing(s)
		}
	case "budget":
		var s string
		if json.Unmarshal(value, &s) == nil {
			form.Budget = leads.BudgetRange(s)
		}
	case "services":
		json.Unmarshal(value, &form.Services)
	}
}

func setString(value json.RawMessage, dst *string) {
	var s string
	if json.Unmarshal(value, &s) == nil {
		*dst = s
	}
}
