package services

import (
	"context"

	"github.com/ajharbinger/poolvest-insights/internal/errors"
	"github.com/google/uuid"
)

// AuthorizeReliability allows the user themself or an admin
func (s *insightsServiceImpl) AuthorizeReliability(actor Actor, userID uuid.UUID) error {
	if actor.IsAdmin() || actor.UserID == userID {
		return nil
	}
	return errors.Forbidden("access denied", nil).WithOperation("AuthorizeReliability")
}

// AuthorizeRiskAssessment allows an admin or the entrepreneur who owns the
// opportunity
func (s *insightsServiceImpl) AuthorizeRiskAssessment(ctx context.Context, actor Actor, opportunityID uuid.UUID) error {
	if actor.IsAdmin() {
		return nil
	}

	opp, err := s.repos.Opportunity.GetByID(ctx, opportunityID)
	if err != nil {
		if appErr := notFoundOr(err, "opportunity not found"); errors.IsNotFound(appErr) {
			return appErr
		}
		s.logger.Error("Failed to load opportunity for access check", err, "opportunity_id", opportunityID)
		return errors.ServiceError(msgRiskFailed, err).WithOperation("AuthorizeRiskAssessment")
	}

	if opp.EntrepreneurID != actor.UserID {
		return errors.Forbidden("access denied", nil).WithOperation("AuthorizeRiskAssessment")
	}
	return nil
}

// AuthorizeLeaderPerformance allows an admin or any member of the pool
func (s *insightsServiceImpl) AuthorizeLeaderPerformance(ctx context.Context, actor Actor, poolID uuid.UUID) error {
	if actor.IsAdmin() {
		return nil
	}

	member, err := s.repos.Pool.IsMember(ctx, poolID, actor.UserID)
	if err != nil {
		s.logger.Error("Failed to check pool membership", err, "pool_id", poolID, "user_id", actor.UserID)
		return errors.ServiceError(msgLeaderFailed, err).WithOperation("AuthorizeLeaderPerformance")
	}

	if !member {
		return errors.Forbidden("access denied", nil).WithOperation("AuthorizeLeaderPerformance")
	}
	return nil
}
