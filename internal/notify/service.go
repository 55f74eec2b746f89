package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/neighborhoodkrew/krew-leads-platform/internal/leads"
	"github.com/neighborhoodkrew/krew-leads-platform/pkg/logging"
)

// Service emails the operator when a quote request comes in. It is fire and
// forget: failures are logged, never propagated to the visitor's request.
type Service struct {
	email     EmailSender
	recipient string
	logger    *logging.Logger
}

// NewService creates a notification service. recipient is the operator inbox;
// with an empty recipient or nil sender NotifyNewLead is a no-op.
func NewService(email EmailSender, recipient string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{email: email, recipient: recipient, logger: logger}
}

// NotifyNewLead emails the operator about a freshly submitted lead.
func (s *Service) NotifyNewLead(ctx context.Context, lead *leads.Lead) {
	if s.email == nil || s.recipient == "" {
		return
	}

	name := lead.Name
	if name == "" {
		name = "A new customer"
	}

	subject := fmt.Sprintf("New moving lead - %s (score %d/%d)", name, lead.LeadScore, leads.MaxScore)
	body := fmt.Sprintf(`%s requested a moving quote!

Name: %s
Phone: %s
Email: %s
Move: %s -> %s on %s
Home size: %s
Services: %s
Timing: %s
Budget: $%s
Lead score: %d/%d
Notes: %s

Follow up while it's hot.

— Neighborhood Krew`,
		name, lead.Name, lead.Phone, lead.Email,
		lead.FromZip, lead.ToZip, lead.Date,
		lead.Size, describeServices(lead.Services), lead.Timing, lead.Budget,
		lead.LeadScore, leads.MaxScore, lead.Notes)

	msg := EmailMessage{
		To:      s.recipient,
		Subject: subject,
		Body:    body,
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Error("new-lead notification failed", "error", err, "lead_id", lead.ID)
		return
	}
	s.logger.Info("new-lead notification sent", "lead_id", lead.ID, "to", s.recipient)
}

func describeServices(svc leads.ServiceSelections) string {
	var parts []string
	if svc.Packing {
		parts = append(parts, "packing")
	}
	if svc.Junk {
		parts = append(parts, "junk removal")
	}
	if svc.Assembly {
		parts = append(parts, "assembly")
	}
	if svc.LongCarry {
		parts = append(parts, "long carry")
	}
	if svc.Freight {
		parts = append(parts, "freight elevator")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}
