package leadrepo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jedalosa/energymatch/internal/domain/catalog"
)

// PostgresRepository persists leads in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Record inserts a new lead row.
func (r *PostgresRepository) Record(ctx context.Context, lead catalog.Lead) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO leads (id, client_name, email, client_type, consumption_kwh, neighborhood, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, lead.ID, lead.ClientName, lead.Email, lead.ClientType, lead.ConsumptionKWh, lead.Neighborhood, lead.Status, lead.CreatedAt)
	return err
}

// ListRecent fetches leads ordered newest first.
func (r *PostgresRepository) ListRecent(ctx context.Context, limit int) ([]catalog.Lead, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, client_name, email, client_type, consumption_kwh, neighborhood, status, created_at
		FROM leads
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var leads []catalog.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (catalog.Lead, error) {
	var lead catalog.Lead
	var created time.Time
	if err := row.Scan(&lead.ID, &lead.ClientName, &lead.Email, &lead.ClientType, &lead.ConsumptionKWh, &lead.Neighborhood, &lead.Status, &created); err != nil {
		return catalog.Lead{}, err
	}
	lead.CreatedAt = created.UTC()
	return lead, nil
}

var _ catalog.LeadRepository = (*PostgresRepository)(nil)
