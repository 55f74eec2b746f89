package leads

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgDB is the subset of pgxpool.Pool the repository needs; pgxmock satisfies
// it in tests.
type pgDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresRepository archives submitted leads in the relational database.
type PostgresRepository struct {
	db pgDB
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

func newPostgresRepositoryWithDB(db pgDB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Append inserts one lead row. Services are stored as a JSONB document so the
// archive keeps the exact selections without a column per service.
func (r *PostgresRepository) Append(ctx context.Context, lead *Lead) error {
	services, err := json.Marshal(lead.Services)
	if err != nil {
		return fmt.Errorf("leads: marshal services: %w", err)
	}

	query := `
		INSERT INTO leads (id, name, email, phone, from_zip, to_zip, move_date, size, services, timing, budget, notes, lead_score, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	if _, err := r.db.Exec(ctx, query,
		lead.ID,
		lead.Name,
		lead.Email,
		lead.Phone,
		lead.FromZip,
		lead.ToZip,
		lead.Date,
		string(lead.Size),
		services,
		string(lead.Timing),
		string(lead.Budget),
		lead.Notes,
		lead.LeadScore,
		lead.CreatedAt,
	); err != nil {
		return fmt.Errorf("leads: insert failed: %w", err)
	}
	return nil
}

// List returns archived leads in insertion order.
func (r *PostgresRepository) List(ctx context.Context) ([]Lead, error) {
	query := `
		SELECT id, name, email, phone, from_zip, to_zip, move_date, size, services, timing, budget, notes, lead_score, created_at
		FROM leads
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	defer rows.Close()

	var leads []Lead
	for rows.Next() {
		var (
			lead                 Lead
			services             []byte
			size, timing, budget string
		)
		if err := rows.Scan(
			&lead.ID,
			&lead.Name,
			&lead.Email,
			&lead.Phone,
			&lead.FromZip,
			&lead.ToZip,
			&lead.Date,
			&size,
			&services,
			&timing,
			&budget,
			&lead.Notes,
			&lead.LeadScore,
			&lead.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		lead.Size = HomeSize(size)
		lead.Timing = Timing(timing)
		lead.Budget = BudgetRange(budget)
		if err := json.Unmarshal(services, &lead.Services); err != nil {
			return nil, fmt.Errorf("leads: decode services: %w", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leads: iterate rows: %w", err)
	}
	return leads, nil
}
