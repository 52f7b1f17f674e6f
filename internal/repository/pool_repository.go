package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// poolRepository implements PoolRepository
type poolRepository struct {
	db dbExecutor
}

// NewPoolRepository creates a new pool repository
func NewPoolRepository(db dbExecutor) PoolRepository {
	return &poolRepository{db: db}
}

// IsMember reports whether the user belongs to the pool
func (r *poolRepository) IsMember(ctx context.Context, poolID, userID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM pool_members WHERE pool_id = $1 AND user_id = $2
		)
	`

	var member bool
	if err := r.db.QueryRowContext(ctx, query, poolID, userID).Scan(&member); err != nil {
		return false, fmt.Errorf("failed to check pool membership: %w", err)
	}
	return member, nil
}
