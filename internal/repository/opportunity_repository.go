package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ajharbinger/poolvest-insights/internal/models"
	"github.com/ajharbinger/poolvest-insights/internal/scoring"
	"github.com/google/uuid"
)

const opportunityColumns = `id, entrepreneur_id, title, industry, location, funding_target,
	expected_roi, investment_term_months, team_size, risk_score, ai_insights,
	created_at, updated_at`

// riskAssessmentDocument is the value stored under ai_insights.risk_assessment
type riskAssessmentDocument struct {
	scoring.RiskResult
	ModelVersion string    `json:"model_version"`
	AssessedAt   time.Time `json:"assessed_at"`
}

// opportunityRepository implements OpportunityRepository
type opportunityRepository struct {
	db dbExecutor
}

// NewOpportunityRepository creates a new opportunity repository
func NewOpportunityRepository(db dbExecutor) OpportunityRepository {
	return &opportunityRepository{db: db}
}

// GetByID retrieves an opportunity by ID
func (r *opportunityRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Opportunity, error) {
	query := `SELECT ` + opportunityColumns + ` FROM opportunities WHERE id = $1`
	return r.get(ctx, query, id)
}

// GetByIDForUpdate retrieves an opportunity by ID and locks the row
func (r *opportunityRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Opportunity, error) {
	query := `SELECT ` + opportunityColumns + ` FROM opportunities WHERE id = $1 FOR UPDATE`
	return r.get(ctx, query, id)
}

func (r *opportunityRepository) get(ctx context.Context, query string, id uuid.UUID) (*models.Opportunity, error) {
	opp, err := scanOpportunity(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("opportunity %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get opportunity: %w", err)
	}
	return opp, nil
}

// UpdateRiskAssessment stores the overall risk and merges the breakdown into
// ai_insights under the risk_assessment key
func (r *opportunityRepository) UpdateRiskAssessment(ctx context.Context, id uuid.UUID, result scoring.RiskResult, assessedAt time.Time) error {
	doc, err := json.Marshal(riskAssessmentDocument{
		RiskResult:   result,
		ModelVersion: scoring.ModelVersion,
		AssessedAt:   assessedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode risk assessment: %w", err)
	}

	query := `
		UPDATE opportunities SET
			risk_score = $2,
			ai_insights = jsonb_set(COALESCE(ai_insights, '{}'::jsonb), '{risk_assessment}', $3::jsonb, true),
			updated_at = NOW()
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, id, result.OverallRisk, string(doc))
	if err != nil {
		return fmt.Errorf("failed to update risk assessment: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("opportunity %s: %w", id, ErrNotFound)
	}

	return nil
}

// ListIDs returns the ids of every opportunity
func (r *opportunityRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM opportunities ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list opportunities: %w", err)
	}
	return scanIDs(rows)
}

func scanOpportunity(row rowScanner) (*models.Opportunity, error) {
	var (
		opp                models.Opportunity
		industry, location sql.NullString
		funding, roi, risk sql.NullFloat64
		term, teamSize     sql.NullInt64
		insights           []byte
	)
	err := row.Scan(
		&opp.ID, &opp.EntrepreneurID, &opp.Title, &industry, &location, &funding,
		&roi, &term, &teamSize, &risk, &insights,
		&opp.CreatedAt, &opp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	opp.Industry = nullString(industry)
	opp.Location = nullString(location)
	opp.FundingTarget = nullFloat(funding)
	opp.ExpectedROI = nullFloat(roi)
	opp.InvestmentTermMonths = nullInt(term)
	opp.TeamSize = nullInt(teamSize)
	opp.RiskScore = nullFloat(risk)
	if len(insights) == 0 {
		insights = []byte("{}")
	}
	opp.AIInsights = json.RawMessage(insights)
	return &opp, nil
}
