// Package leads holds the quote form model, lead scoring, persistence and
// CSV export for submitted move-quote requests.
package leads

import "time"

// HomeSize is the size of the home or job being moved.
type HomeSize string

// Home size literals shown in the quote funnel.
const (
	SizeStudio       HomeSize = "Studio"
	SizeApartment    HomeSize = "Apartment (1-2 BR)"
	SizeTownhouse    HomeSize = "Townhouse"
	SizeSingleFamily HomeSize = "Single Family Home"
	SizeOffice       HomeSize = "Office / Commercial"
)

// Timing is how soon the customer wants to move.
type Timing string

// Timing literals shown in the quote funnel.
const (
	TimingASAP          Timing = "ASAP (within 7 days)"
	TimingWithin30Days  Timing = "Within 30 days"
	TimingOneToThreeMos Timing = "1–3 months"
)

// BudgetRange is the customer's stated budget in dollars.
type BudgetRange string

// Budget literals shown in the quote funnel.
const (
	Budget500To1000  BudgetRange = "500-1000"
	Budget1000To2000 BudgetRange = "1000-2000"
	Budget2000To4000 BudgetRange = "2000-4000"
	Budget4000Plus   BudgetRange = "4000+"
)

// ServiceSelections records which add-on services the customer wants.
// The five fields are fixed; a form always carries all of them.
type ServiceSelections struct {
	Packing   bool `json:"packing"`
	Junk      bool `json:"junk"`
	Assembly  bool `json:"assembly"`
	LongCarry bool `json:"longCarry"`
	Freight   bool `json:"freight"`
}

// Count returns how many services are selected.
func (s ServiceSelections) Count() int {
	n := 0
	for _, selected := range []bool{s.Packing, s.Junk, s.Assembly, s.LongCarry, s.Freight} {
		if selected {
			n++
		}
	}
	return n
}

// QuoteForm is the in-progress intake form collected by the funnel.
// The funnel performs no validation; required-field enforcement stays in the
// presentation layer.
type QuoteForm struct {
	Name     string            `json:"name"`
	Email    string            `json:"email"`
	Phone    string            `json:"phone"`
	FromZip  string            `json:"fromZip"`
	ToZip    string            `json:"toZip"`
	Date     string            `json:"date"` // YYYY-MM-DD
	Size     HomeSize          `json:"size"`
	Services ServiceSelections `json:"services"`
	Timing   Timing            `json:"timing"`
	Budget   BudgetRange       `json:"budget"`
	Notes    string            `json:"notes"`
}

// DefaultForm returns a fresh form with the funnel's starting values.
func DefaultForm() QuoteForm {
	return QuoteForm{
		Size:     SizeApartment,
		Services: ServiceSelections{Assembly: true},
		Timing:   TimingASAP,
		Budget:   Budget1000To2000,
	}
}

// Lead is a submitted quote request. Immutable once persisted.
type Lead struct {
	ID string `json:"id"`
	QuoteForm
	LeadScore int       `json:"leadScore"`
	CreatedAt time.Time `json:"createdAt"`
}
