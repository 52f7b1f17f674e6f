package services

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/ajharbinger/poolvest-insights/internal/errors"
	"github.com/ajharbinger/poolvest-insights/internal/events"
	"github.com/ajharbinger/poolvest-insights/internal/logger"
	"github.com/ajharbinger/poolvest-insights/internal/metrics"
	"github.com/ajharbinger/poolvest-insights/internal/models"
	"github.com/ajharbinger/poolvest-insights/internal/repository"
	"github.com/ajharbinger/poolvest-insights/internal/scoring"
	"github.com/google/uuid"
)

const (
	msgReliabilityFailed = "failed to calculate reliability score"
	msgRiskFailed        = "failed to assess opportunity risk"
	msgLeaderFailed      = "failed to calculate leader performance"
)

// insightsServiceImpl implements InsightsService
type insightsServiceImpl struct {
	repos     *repository.Repositories
	engine    *scoring.ScoringEngine
	logger    logger.Logger
	metrics   *metrics.Manager
	publisher events.Publisher
	now       func() time.Time
}

// newInsightsService creates a new insights service implementation
func newInsightsService(deps Dependencies) *insightsServiceImpl {
	s := &insightsServiceImpl{
		repos:     deps.Repos,
		engine:    scoring.NewScoringEngine(),
		logger:    deps.Logger,
		metrics:   deps.Metrics,
		publisher: deps.Publisher,
		now:       deps.Now,
	}
	if s.logger == nil {
		s.logger = logger.NewNop()
	}
	s.logger = s.logger.With("component", "insights")
	if s.publisher == nil {
		s.publisher = events.NoopPublisher{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// ComputeReliabilityScore scores an entrepreneur and stores the overall score
// on the user row
func (s *insightsServiceImpl) ComputeReliabilityScore(ctx context.Context, userID uuid.UUID) (*ReliabilityScore, error) {
	start := time.Now()
	var out *ReliabilityScore

	err := s.repos.Tx.WithTransaction(ctx, func(tx *repository.Repositories) error {
		user, err := tx.User.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return notFoundOr(err, "user not found")
		}

		milestones, err := tx.Milestone.ListByEntrepreneur(ctx, user.ID)
		if err != nil {
			return err
		}

		agreements, err := tx.Agreement.ListByEntrepreneur(ctx, user.ID)
		if err != nil {
			return err
		}

		result := s.engine.Reliability(scoring.ReliabilityInput{
			Milestones: milestones,
			Agreements: agreements,
		})

		if err := tx.User.UpdateReliabilityScore(ctx, user.ID, result.OverallScore); err != nil {
			return err
		}

		out = &ReliabilityScore{
			UserID:            user.ID,
			ReliabilityResult: result,
			CalculatedAt:      s.now().UTC(),
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(metrics.KindReliability, "ComputeReliabilityScore", msgReliabilityFailed, start, err, "user_id", userID)
	}

	s.metrics.ObserveScoring(metrics.KindReliability, metrics.OutcomeSuccess, time.Since(start))
	s.logger.Info("Reliability score computed", "user_id", userID, "overall_score", out.OverallScore)
	s.publish(ctx, events.TypeReliabilityComputed, userID.String(), out)

	return out, nil
}

// AssessOpportunityRisk scores an opportunity and stores the breakdown inside
// its ai_insights
func (s *insightsServiceImpl) AssessOpportunityRisk(ctx context.Context, opportunityID uuid.UUID) (*RiskAssessment, error) {
	start := time.Now()
	var out *RiskAssessment

	err := s.repos.Tx.WithTransaction(ctx, func(tx *repository.Repositories) error {
		opp, err := tx.Opportunity.GetByIDForUpdate(ctx, opportunityID)
		if err != nil {
			return notFoundOr(err, "opportunity not found")
		}

		entrepreneur, err := tx.User.GetByID(ctx, opp.EntrepreneurID)
		if err != nil {
			return notFoundOr(err, "entrepreneur not found")
		}

		result := s.engine.Risk(scoring.NewRiskInput(opp, entrepreneur))
		assessedAt := s.now().UTC()

		if err := tx.Opportunity.UpdateRiskAssessment(ctx, opp.ID, result, assessedAt); err != nil {
			return err
		}

		out = &RiskAssessment{
			OpportunityID: opp.ID,
			RiskResult:    result,
			AssessedAt:    assessedAt,
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(metrics.KindRisk, "AssessOpportunityRisk", msgRiskFailed, start, err, "opportunity_id", opportunityID)
	}

	s.metrics.ObserveScoring(metrics.KindRisk, metrics.OutcomeSuccess, time.Since(start))
	s.logger.Info("Opportunity risk assessed", "opportunity_id", opportunityID, "overall_risk", out.OverallRisk, "risk_level", out.RiskLevel)
	s.publish(ctx, events.TypeRiskAssessed, opportunityID.String(), out)

	return out, nil
}

// ComputeLeaderPerformance scores one leadership role in one pool
func (s *insightsServiceImpl) ComputeLeaderPerformance(ctx context.Context, poolID, userID uuid.UUID, role models.LeaderRole) (*LeaderPerformance, error) {
	start := time.Now()
	var out *LeaderPerformance

	err := s.repos.Tx.WithTransaction(ctx, func(tx *repository.Repositories) error {
		row, err := tx.LeaderPerformance.FindForUpdate(ctx, poolID, userID, role)
		if err != nil {
			return notFoundOr(err, "leader performance record not found")
		}

		result := s.engine.LeaderPerformance(*row)
		evaluatedAt := s.now().UTC()

		if err := tx.LeaderPerformance.UpdateScore(ctx, row.ID, result.OverallScore, evaluatedAt); err != nil {
			return err
		}

		out = &LeaderPerformance{
			PoolID:                  poolID,
			UserID:                  userID,
			Role:                    role,
			LeaderPerformanceResult: result,
			EvaluatedAt:             evaluatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(metrics.KindLeaderPerformance, "ComputeLeaderPerformance", msgLeaderFailed, start, err,
			"pool_id", poolID, "user_id", userID, "role", role)
	}

	s.metrics.ObserveScoring(metrics.KindLeaderPerformance, metrics.OutcomeSuccess, time.Since(start))
	s.logger.Info("Leader performance computed", "pool_id", poolID, "user_id", userID, "role", role, "overall_score", out.OverallScore)
	s.publish(ctx, events.TypeLeaderEvaluated, poolID.String(), out)

	return out, nil
}

// BatchReliabilityScores scores each user in turn
func (s *insightsServiceImpl) BatchReliabilityScores(ctx context.Context, userIDs []uuid.UUID) *BatchResult[ReliabilityScore] {
	s.metrics.ObserveBatch(metrics.KindReliability, len(userIDs))
	result := runBatch(ctx, userIDs, s.ComputeReliabilityScore)
	s.logger.Info("Batch reliability scoring finished",
		"total", result.Summary.TotalProcessed, "successful", result.Summary.Successful, "failed", result.Summary.Failed)
	return result
}

// BatchRiskAssessments assesses each opportunity in turn
func (s *insightsServiceImpl) BatchRiskAssessments(ctx context.Context, opportunityIDs []uuid.UUID) *BatchResult[RiskAssessment] {
	s.metrics.ObserveBatch(metrics.KindRisk, len(opportunityIDs))
	result := runBatch(ctx, opportunityIDs, s.AssessOpportunityRisk)
	s.logger.Info("Batch risk assessment finished",
		"total", result.Summary.TotalProcessed, "successful", result.Summary.Successful, "failed", result.Summary.Failed)
	return result
}

// ModelStatus reports the calculators, their version and weights
func (s *insightsServiceImpl) ModelStatus() ModelStatus {
	return ModelStatus{
		Models: map[string]bool{
			"reliability":        true,
			"risk":               true,
			"leader_performance": true,
		},
		Version: scoring.ModelVersion,
		Weights: s.engine.Weights(),
		Placeholders: map[string]float64{
			"communication_score": scoring.CommunicationPlaceholder,
			"location_risk":       scoring.LocationRiskPlaceholder,
		},
		CheckedAt: s.now().UTC(),
	}
}

// ListEntrepreneurIDs returns every entrepreneur id
func (s *insightsServiceImpl) ListEntrepreneurIDs(ctx context.Context) ([]uuid.UUID, error) {
	ids, err := s.repos.User.ListEntrepreneurIDs(ctx)
	if err != nil {
		s.logger.Error("Failed to list entrepreneurs", err)
		return nil, errors.DatabaseError("failed to list entrepreneurs", err).WithOperation("ListEntrepreneurIDs")
	}
	return ids, nil
}

// ListOpportunityIDs returns every opportunity id
func (s *insightsServiceImpl) ListOpportunityIDs(ctx context.Context) ([]uuid.UUID, error) {
	ids, err := s.repos.Opportunity.ListIDs(ctx)
	if err != nil {
		s.logger.Error("Failed to list opportunities", err)
		return nil, errors.DatabaseError("failed to list opportunities", err).WithOperation("ListOpportunityIDs")
	}
	return ids, nil
}

// runBatch calls one for every id, sequentially. A failing id never stops
// the batch; a cancelled context fails every id not yet processed.
func runBatch[T any](ctx context.Context, ids []uuid.UUID, one func(context.Context, uuid.UUID) (*T, error)) *BatchResult[T] {
	out := &BatchResult[T]{
		Results: []T{},
		Errors:  []BatchItemError{},
	}

	for i, id := range ids {
		if ctxErr := ctx.Err(); ctxErr != nil {
			for _, rest := range ids[i:] {
				out.Errors = append(out.Errors, BatchItemError{ID: rest, Error: ctxErr.Error()})
			}
			break
		}

		result, err := one(ctx, id)
		if err != nil {
			out.Errors = append(out.Errors, BatchItemError{ID: id, Error: errors.PublicMessage(err)})
			continue
		}
		out.Results = append(out.Results, *result)
	}

	out.Summary = BatchSummary{
		TotalProcessed: len(ids),
		Successful:     len(out.Results),
		Failed:         len(out.Errors),
	}
	return out
}

// notFoundOr turns repository misses into a NotFound error and passes
// everything else through
func notFoundOr(err error, message string) error {
	if stderrors.Is(err, repository.ErrNotFound) || stderrors.Is(err, repository.ErrAmbiguous) {
		return errors.NotFound(message, err)
	}
	return err
}

// fail records the failed operation and returns the error callers see.
// NotFound keeps its class, everything else becomes a generic service error.
func (s *insightsServiceImpl) fail(kind, operation, message string, start time.Time, err error, fields ...interface{}) error {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) && appErr.Code == errors.ErrCodeNotFound {
		s.metrics.ObserveScoring(kind, metrics.OutcomeNotFound, time.Since(start))
		s.logger.Warn(appErr.Message, append(fields, "operation", operation)...)
		return appErr.WithOperation(operation)
	}

	s.metrics.ObserveScoring(kind, metrics.OutcomeError, time.Since(start))
	s.logger.Error(message, err, append(fields, "operation", operation)...)
	return errors.ServiceError(message, err).WithOperation(operation)
}

// publish emits a domain event. Delivery failures are logged, not returned.
func (s *insightsServiceImpl) publish(ctx context.Context, eventType, subjectID string, data interface{}) {
	event, err := events.NewEvent(eventType, subjectID, data)
	if err != nil {
		s.logger.Warn("Failed to encode event", "type", eventType, "error", err)
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish event", "type", eventType, "subject_id", subjectID, "error", err)
	}
}
