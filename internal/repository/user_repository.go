package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ajharbinger/poolvest-insights/internal/models"
	"github.com/google/uuid"
)

const userColumns = `id, email, full_name, role, reliability_score, created_at, updated_at`

// userRepository implements UserRepository
type userRepository struct {
	db dbExecutor
}

// NewUserRepository creates a new user repository
func NewUserRepository(db dbExecutor) UserRepository {
	return &userRepository{db: db}
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.get(ctx, query, id)
}

// GetByIDForUpdate retrieves a user by ID and locks the row until the
// surrounding transaction ends
func (r *userRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`
	return r.get(ctx, query, id)
}

func (r *userRepository) get(ctx context.Context, query string, id uuid.UUID) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateReliabilityScore overwrites the stored reliability score
func (r *userRepository) UpdateReliabilityScore(ctx context.Context, id uuid.UUID, score float64) error {
	query := `
		UPDATE users SET reliability_score = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, score)
	if err != nil {
		return fmt.Errorf("failed to update reliability score: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}

	return nil
}

// ListEntrepreneurIDs returns the ids of every entrepreneur account
func (r *userRepository) ListEntrepreneurIDs(ctx context.Context) ([]uuid.UUID, error) {
	query := `SELECT id FROM users WHERE role = $1 ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, string(models.RoleEntrepreneur))
	if err != nil {
		return nil, fmt.Errorf("failed to list entrepreneurs: %w", err)
	}
	return scanIDs(rows)
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		user        models.User
		fullName    sql.NullString
		reliability sql.NullFloat64
	)
	err := row.Scan(
		&user.ID, &user.Email, &fullName, &user.Role, &reliability,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.FullName = nullString(fullName)
	user.ReliabilityScore = nullFloat(reliability)
	return &user, nil
}
