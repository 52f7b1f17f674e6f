package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ajharbinger/poolvest-insights/internal/models"
	"github.com/google/uuid"
)

// leaderPerformanceRepository implements LeaderPerformanceRepository
type leaderPerformanceRepository struct {
	db dbExecutor
}

// NewLeaderPerformanceRepository creates a new leader performance repository
func NewLeaderPerformanceRepository(db dbExecutor) LeaderPerformanceRepository {
	return &leaderPerformanceRepository{db: db}
}

// FindForUpdate locks and returns the row for (pool, user, role)
func (r *leaderPerformanceRepository) FindForUpdate(ctx context.Context, poolID, userID uuid.UUID, role models.LeaderRole) (*models.PoolLeaderPerformance, error) {
	query := `
		SELECT id, pool_id, user_id, role, meetings_called, announcements_made,
			investment_success_rate, member_satisfaction_score,
			overall_score, last_evaluation_date
		FROM pool_leader_performance
		WHERE pool_id = $1 AND user_id = $2 AND role = $3
		LIMIT 2
		FOR UPDATE
	`

	rows, err := r.db.QueryContext(ctx, query, poolID, userID, string(role))
	if err != nil {
		return nil, fmt.Errorf("failed to get leader performance: %w", err)
	}
	defer rows.Close()

	var found []models.PoolLeaderPerformance
	for rows.Next() {
		var (
			p                         models.PoolLeaderPerformance
			meetings, announcements   sql.NullInt64
			successRate, satisfaction sql.NullFloat64
			overall                   sql.NullFloat64
			evaluatedAt               sql.NullTime
		)
		err := rows.Scan(
			&p.ID, &p.PoolID, &p.UserID, &p.Role, &meetings, &announcements,
			&successRate, &satisfaction, &overall, &evaluatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leader performance: %w", err)
		}
		p.MeetingsCalled = int(meetings.Int64)
		p.AnnouncementsMade = int(announcements.Int64)
		p.InvestmentSuccessRate = successRate.Float64
		p.MemberSatisfactionScore = satisfaction.Float64
		p.OverallScore = nullFloat(overall)
		p.LastEvaluationDate = nullTime(evaluatedAt)
		found = append(found, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leader performance: %w", err)
	}

	switch len(found) {
	case 0:
		return nil, fmt.Errorf("leader performance for pool %s user %s role %s: %w", poolID, userID, role, ErrNotFound)
	case 1:
		return &found[0], nil
	default:
		return nil, fmt.Errorf("leader performance for pool %s user %s role %s: %w", poolID, userID, role, ErrAmbiguous)
	}
}

// UpdateScore stores the overall score and evaluation time
func (r *leaderPerformanceRepository) UpdateScore(ctx context.Context, id uuid.UUID, score float64, evaluatedAt time.Time) error {
	query := `
		UPDATE pool_leader_performance SET
			overall_score = $2, last_evaluation_date = $3, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, score, evaluatedAt)
	if err != nil {
		return fmt.Errorf("failed to update leader performance: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("leader performance %s: %w", id, ErrNotFound)
	}

	return nil
}
