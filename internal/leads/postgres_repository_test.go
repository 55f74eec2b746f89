package leads

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestPostgresRepositoryAppend(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := newPostgresRepositoryWithDB(mock)

	form := DefaultForm()
	form.Name = "Dana"
	form.Email = "dana@example.com"
	lead := &Lead{
		ID:        "lead-1",
		QuoteForm: form,
		LeadScore: Score(form),
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO leads").
		WithArgs(
			lead.ID, lead.Name, lead.Email, lead.Phone,
			lead.FromZip, lead.ToZip, lead.Date, string(lead.Size),
			pgxmock.AnyArg(), string(lead.Timing), string(lead.Budget),
			lead.Notes, lead.LeadScore, lead.CreatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Append(context.Background(), lead); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresRepositoryList(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := newPostgresRepositoryWithDB(mock)

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{
		"id", "name", "email", "phone", "from_zip", "to_zip", "move_date",
		"size", "services", "timing", "budget", "notes", "lead_score", "created_at",
	}).AddRow(
		"lead-1", "Dana", "dana@example.com", "", "19103", "27949", "2026-10-01",
		"Townhouse", []byte(`{"packing":true,"junk":false,"assembly":true,"longCarry":false,"freight":false}`),
		"ASAP (within 7 days)", "2000-4000", "", 8, now,
	)
	mock.ExpectQuery("SELECT id").WillReturnRows(rows)

	leads, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(leads) != 1 {
		t.Fatalf("expected 1 lead, got %d", len(leads))
	}
	lead := leads[0]
	if lead.Size != SizeTownhouse || !lead.Services.Packing || lead.LeadScore != 8 {
		t.Errorf("unexpected lead: %+v", lead)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
