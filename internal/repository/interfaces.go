package repository

import (
	"context"
	"time"

	"github.com/ajharbinger/poolvest-insights/internal/models"
	"github.com/ajharbinger/poolvest-insights/internal/scoring"
	"github.com/google/uuid"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateReliabilityScore(ctx context.Context, id uuid.UUID, score float64) error
	ListEntrepreneurIDs(ctx context.Context) ([]uuid.UUID, error)
}

// OpportunityRepository defines the interface for opportunity data access
type OpportunityRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Opportunity, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Opportunity, error)
	// UpdateRiskAssessment writes risk_score and replaces only the
	// risk_assessment key of ai_insights.
	UpdateRiskAssessment(ctx context.Context, id uuid.UUID, result scoring.RiskResult, assessedAt time.Time) error
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

// MilestoneRepository defines the interface for milestone data access
type MilestoneRepository interface {
	ListByEntrepreneur(ctx context.Context, entrepreneurID uuid.UUID) ([]models.Milestone, error)
}

// AgreementRepository defines the interface for agreement data access
type AgreementRepository interface {
	ListByEntrepreneur(ctx context.Context, entrepreneurID uuid.UUID) ([]models.Agreement, error)
}

// PoolRepository defines the interface for pool membership lookups
type PoolRepository interface {
	IsMember(ctx context.Context, poolID, userID uuid.UUID) (bool, error)
}

// LeaderPerformanceRepository defines the interface for pool leader performance rows
type LeaderPerformanceRepository interface {
	// FindForUpdate locks and returns the single row for the triple.
	// Returns ErrNotFound for no rows and ErrAmbiguous for more than one.
	FindForUpdate(ctx context.Context, poolID, userID uuid.UUID, role models.LeaderRole) (*models.PoolLeaderPerformance, error)
	UpdateScore(ctx context.Context, id uuid.UUID, score float64, evaluatedAt time.Time) error
}

// TransactionManager defines the interface for database transaction management
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(repos *Repositories) error) error
}

// Repositories groups all repository interfaces
type Repositories struct {
	User              UserRepository
	Opportunity       OpportunityRepository
	Milestone         MilestoneRepository
	Agreement         AgreementRepository
	Pool              PoolRepository
	LeaderPerformance LeaderPerformanceRepository
	Tx                TransactionManager
}
