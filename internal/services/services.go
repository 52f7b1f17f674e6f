package services

import (
	"context"
	"time"

	"github.com/ajharbinger/poolvest-insights/internal/events"
	"github.com/ajharbinger/poolvest-insights/internal/logger"
	"github.com/ajharbinger/poolvest-insights/internal/metrics"
	"github.com/ajharbinger/poolvest-insights/internal/models"
	"github.com/ajharbinger/poolvest-insights/internal/repository"
	"github.com/google/uuid"
)

// Services contains all application services
type Services struct {
	Insights InsightsService
}

// InsightsService computes, persists and reports the heuristic insight scores
type InsightsService interface {
	// Scoring operations
	ComputeReliabilityScore(ctx context.Context, userID uuid.UUID) (*ReliabilityScore, error)
	AssessOpportunityRisk(ctx context.Context, opportunityID uuid.UUID) (*RiskAssessment, error)
	ComputeLeaderPerformance(ctx context.Context, poolID, userID uuid.UUID, role models.LeaderRole) (*LeaderPerformance, error)

	// Batch operations
	BatchReliabilityScores(ctx context.Context, userIDs []uuid.UUID) *BatchResult[ReliabilityScore]
	BatchRiskAssessments(ctx context.Context, opportunityIDs []uuid.UUID) *BatchResult[RiskAssessment]

	// Access rules, checked before any computation
	AuthorizeReliability(actor Actor, userID uuid.UUID) error
	AuthorizeRiskAssessment(ctx context.Context, actor Actor, opportunityID uuid.UUID) error
	AuthorizeLeaderPerformance(ctx context.Context, actor Actor, poolID uuid.UUID) error

	ModelStatus() ModelStatus
	ListEntrepreneurIDs(ctx context.Context) ([]uuid.UUID, error)
	ListOpportunityIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Dependencies are the collaborators every service is built from
type Dependencies struct {
	Repos     *repository.Repositories
	Logger    logger.Logger
	Metrics   *metrics.Manager
	Publisher events.Publisher
	// Now defaults to time.Now
	Now func() time.Time
}

// NewServices creates a new Services instance with all dependencies
func NewServices(deps Dependencies) *Services {
	return &Services{
		Insights: NewInsightsService(deps),
	}
}

// NewInsightsService creates a standalone insights service
func NewInsightsService(deps Dependencies) InsightsService {
	return newInsightsService(deps)
}
