package repository

import (
	"context"
	"time"

	"github.com/segyhp/loan-ops/internal/domain"

	"github.com/jmoiron/sqlx"
)

const remittanceColumns = `
	id, cso_id, remittance_date, amount_collected, amount_paid,
	resolved, resolved_by, resolution_note, resolved_at, created_at, updated_at`

type remittanceRepository struct {
	db *sqlx.DB
}

func NewRemittanceRepository(db *sqlx.DB) RemittanceRepository {
	return &remittanceRepository{db: db}
}

func (r *remittanceRepository) Create(ctx context.Context, remittance *domain.Remittance) error {
	query := `
		INSERT INTO remittances (
			id, cso_id, remittance_date, amount_collected, amount_paid,
			resolved, resolved_by, resolution_note, resolved_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		remittance.ID,
		remittance.CSOID,
		remittance.Date.Format(domain.DateLayout),
		remittance.AmountCollected,
		remittance.AmountPaid,
		remittance.Resolved,
		remittance.ResolvedBy,
		remittance.ResolutionNote,
		remittance.ResolvedAt,
		remittance.CreatedAt,
		remittance.UpdatedAt,
	)

	return translate(err)
}

func (r *remittanceRepository) GetByCSOAndDate(ctx context.Context, csoID string, date time.Time) (*domain.Remittance, error) {
	query := `SELECT ` + remittanceColumns + `
		FROM remittances
		WHERE cso_id = $1 AND remittance_date = $2
	`

	var remittance domain.Remittance
	err := r.db.GetContext(ctx, &remittance, query, csoID, date.Format(domain.DateLayout))
	if err != nil {
		return nil, err
	}

	return &remittance, nil
}

func (r *remittanceRepository) ListByCSOSince(ctx context.Context, csoID string, since time.Time) ([]domain.Remittance, error) {
	query := `SELECT ` + remittanceColumns + `
		FROM remittances
		WHERE cso_id = $1 AND remittance_date >= $2
		ORDER BY remittance_date DESC
	`

	var remittances []domain.Remittance
	err := r.db.SelectContext(ctx, &remittances, query, csoID, since.Format(domain.DateLayout))
	if err != nil {
		return nil, err
	}

	return remittances, nil
}

func (r *remittanceRepository) Update(ctx context.Context, remittance *domain.Remittance) error {
	query := `
		UPDATE remittances
		SET amount_collected = $3,
			amount_paid = $4,
			resolved = $5,
			resolved_by = $6,
			resolution_note = $7,
			resolved_at = $8,
			updated_at = $9
		WHERE cso_id = $1 AND remittance_date = $2
	`

	_, err := r.db.ExecContext(ctx, query,
		remittance.CSOID,
		remittance.Date.Format(domain.DateLayout),
		remittance.AmountCollected,
		remittance.AmountPaid,
		remittance.Resolved,
		remittance.ResolvedBy,
		remittance.ResolutionNote,
		remittance.ResolvedAt,
		remittance.UpdatedAt,
	)

	return err
}
