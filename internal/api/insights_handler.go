package api

import (
	"context"
	"strings"
	"time"

	"github.com/ajharbinger/poolvest-insights/internal/auth"
	apperrors "github.com/ajharbinger/poolvest-insights/internal/errors"
	"github.com/ajharbinger/poolvest-insights/internal/models"
	"github.com/ajharbinger/poolvest-insights/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InsightsHandler serves the reliability, risk and leader performance endpoints
type InsightsHandler struct {
	insights       services.InsightsService
	requestTimeout time.Duration
	batchTimeout   time.Duration
	maxBatchSize   int
}

// HandlerOptions tunes request limits for InsightsHandler
type HandlerOptions struct {
	RequestTimeout time.Duration
	BatchTimeout   time.Duration
	MaxBatchSize   int
}

// NewInsightsHandler creates a new insights handler with service injection
func NewInsightsHandler(insights services.InsightsService, opts HandlerOptions) *InsightsHandler {
	return &InsightsHandler{
		insights:       insights,
		requestTimeout: opts.RequestTimeout,
		batchTimeout:   opts.BatchTimeout,
		maxBatchSize:   opts.MaxBatchSize,
	}
}

type leaderPerformanceRequest struct {
	PoolID string `json:"poolId"`
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

type batchReliabilityRequest struct {
	UserIDs []string `json:"userIds"`
}

type batchRiskRequest struct {
	OpportunityIDs []string `json:"opportunityIds"`
}

// ComputeReliabilityScore handles POST /reliability-score/:userId
func (h *InsightsHandler) ComputeReliabilityScore(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	userID, err := parseID(c.Param("userId"), "userId")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.insights.AuthorizeReliability(actor, userID); err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.requestTimeout)
	defer cancel()

	score, err := h.insights.ComputeReliabilityScore(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, score)
}

// AssessOpportunityRisk handles POST /risk-assessment/:opportunityId
func (h *InsightsHandler) AssessOpportunityRisk(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	opportunityID, err := parseID(c.Param("opportunityId"), "opportunityId")
	if err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.requestTimeout)
	defer cancel()

	if err := h.insights.AuthorizeRiskAssessment(ctx, actor, opportunityID); err != nil {
		respondError(c, err)
		return
	}

	assessment, err := h.insights.AssessOpportunityRisk(ctx, opportunityID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, assessment)
}

// ComputeLeaderPerformance handles POST /leader-performance
func (h *InsightsHandler) ComputeLeaderPerformance(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req leaderPerformanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.InvalidInput("invalid request body", err))
		return
	}
	poolID, err := parseID(req.PoolID, "poolId")
	if err != nil {
		respondError(c, err)
		return
	}
	userID, err := parseID(req.UserID, "userId")
	if err != nil {
		respondError(c, err)
		return
	}
	role := models.LeaderRole(strings.ToLower(strings.TrimSpace(req.Role)))
	if !role.IsValid() {
		respondError(c, apperrors.ValidationError("invalid role", nil).WithDetails(req.Role))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.requestTimeout)
	defer cancel()

	if err := h.insights.AuthorizeLeaderPerformance(ctx, actor, poolID); err != nil {
		respondError(c, err)
		return
	}

	performance, err := h.insights.ComputeLeaderPerformance(ctx, poolID, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, performance)
}

// GetModelStatus handles GET /model-status (admin only)
func (h *InsightsHandler) GetModelStatus(c *gin.Context) {
	respondOK(c, h.insights.ModelStatus())
}

// BatchReliabilityScores handles POST /batch-reliability-scores (admin only)
func (h *InsightsHandler) BatchReliabilityScores(c *gin.Context) {
	var req batchReliabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.InvalidInput("invalid request body", err))
		return
	}
	ids, err := h.parseBatch(req.UserIDs, "userIds")
	if err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.batchTimeout)
	defer cancel()

	respondOK(c, h.insights.BatchReliabilityScores(ctx, ids))
}

// BatchRiskAssessments handles POST /batch-risk-assessments (admin only)
func (h *InsightsHandler) BatchRiskAssessments(c *gin.Context) {
	var req batchRiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.InvalidInput("invalid request body", err))
		return
	}
	ids, err := h.parseBatch(req.OpportunityIDs, "opportunityIds")
	if err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.batchTimeout)
	defer cancel()

	respondOK(c, h.insights.BatchRiskAssessments(ctx, ids))
}

// actor resolves the caller set by auth.JWTMiddleware, answering 401 if absent
func (h *InsightsHandler) actor(c *gin.Context) (services.Actor, bool) {
	identity, ok := auth.CurrentIdentity(c)
	if !ok {
		respondError(c, apperrors.Unauthorized("authentication required", nil))
		return services.Actor{}, false
	}
	return services.Actor{UserID: identity.UserID, Role: identity.Role}, true
}

func (h *InsightsHandler) parseBatch(raw []string, field string) ([]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, apperrors.InvalidInput(field+" must not be empty", nil)
	}
	if len(raw) > h.maxBatchSize {
		return nil, apperrors.InvalidInput(field+" exceeds the maximum batch size", nil)
	}

	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := parseID(s, field)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, apperrors.InvalidInput("invalid "+field, err)
	}
	return id, nil
}
