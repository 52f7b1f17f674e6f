package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ajharbinger/poolvest-insights/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// milestoneRepository implements MilestoneRepository
type milestoneRepository struct {
	db dbExecutor
}

// NewMilestoneRepository creates a new milestone repository
func NewMilestoneRepository(db dbExecutor) MilestoneRepository {
	return &milestoneRepository{db: db}
}

// ListByEntrepreneur returns the milestones of every opportunity owned by the
// entrepreneur. An entrepreneur without opportunities has no milestones.
func (r *milestoneRepository) ListByEntrepreneur(ctx context.Context, entrepreneurID uuid.UUID) ([]models.Milestone, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM opportunities WHERE entrepreneur_id = $1`, entrepreneurID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entrepreneur opportunities: %w", err)
	}
	opportunityIDs, err := scanIDs(rows)
	if err != nil {
		return nil, err
	}
	if len(opportunityIDs) == 0 {
		return []models.Milestone{}, nil
	}

	query := `
		SELECT id, opportunity_id, title, status, due_date, completed_date
		FROM opportunity_milestones
		WHERE opportunity_id = ANY($1::uuid[])
		ORDER BY due_date NULLS LAST, id
	`

	rows, err = r.db.QueryContext(ctx, query, pq.Array(idStrings(opportunityIDs)))
	if err != nil {
		return nil, fmt.Errorf("failed to list milestones: %w", err)
	}
	defer rows.Close()

	milestones := []models.Milestone{}
	for rows.Next() {
		var (
			m                  models.Milestone
			title              sql.NullString
			dueDate, completed sql.NullTime
		)
		if err := rows.Scan(&m.ID, &m.OpportunityID, &title, &m.Status, &dueDate, &completed); err != nil {
			return nil, fmt.Errorf("failed to scan milestone: %w", err)
		}
		m.Title = nullString(title)
		m.DueDate = nullTime(dueDate)
		m.CompletedDate = nullTime(completed)
		milestones = append(milestones, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate milestones: %w", err)
	}

	return milestones, nil
}
