package repository

import (
	"context"
	"fmt"

	"github.com/ajharbinger/poolvest-insights/internal/models"
	"github.com/google/uuid"
)

// agreementRepository implements AgreementRepository
type agreementRepository struct {
	db dbExecutor
}

// NewAgreementRepository creates a new agreement repository
func NewAgreementRepository(db dbExecutor) AgreementRepository {
	return &agreementRepository{db: db}
}

// ListByEntrepreneur returns every agreement held by the entrepreneur
func (r *agreementRepository) ListByEntrepreneur(ctx context.Context, entrepreneurID uuid.UUID) ([]models.Agreement, error) {
	query := `
		SELECT id, entrepreneur_id, opportunity_id, status
		FROM agreements
		WHERE entrepreneur_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, entrepreneurID)
	if err != nil {
		return nil, fmt.Errorf("failed to list agreements: %w", err)
	}
	defer rows.Close()

	agreements := []models.Agreement{}
	for rows.Next() {
		var (
			a             models.Agreement
			opportunityID uuid.NullUUID
		)
		if err := rows.Scan(&a.ID, &a.EntrepreneurID, &opportunityID, &a.Status); err != nil {
			return nil, fmt.Errorf("failed to scan agreement: %w", err)
		}
		if opportunityID.Valid {
			id := opportunityID.UUID
			a.OpportunityID = &id
		}
		agreements = append(agreements, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate agreements: %w", err)
	}

	return agreements, nil
}
