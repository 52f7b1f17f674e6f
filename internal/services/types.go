package services

import (
	"time"

	"github.com/ajharbinger/poolvest-insights/internal/models"
	"github.com/ajharbinger/poolvest-insights/internal/scoring"
	"github.com/google/uuid"
)

// ReliabilityScore is the result of ComputeReliabilityScore
type ReliabilityScore struct {
	UserID uuid.UUID `json:"user_id"`
	scoring.ReliabilityResult
	CalculatedAt time.Time `json:"calculated_at"`
}

// RiskAssessment is the result of AssessOpportunityRisk
type RiskAssessment struct {
	OpportunityID uuid.UUID `json:"opportunity_id"`
	scoring.RiskResult
	AssessedAt time.Time `json:"assessed_at"`
}

// LeaderPerformance is the result of ComputeLeaderPerformance
type LeaderPerformance struct {
	PoolID uuid.UUID         `json:"pool_id"`
	UserID uuid.UUID         `json:"user_id"`
	Role   models.LeaderRole `json:"role"`
	scoring.LeaderPerformanceResult
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// BatchItemError reports one failed id in a batch
type BatchItemError struct {
	ID    uuid.UUID `json:"id"`
	Error string    `json:"error"`
}

// BatchSummary counts a batch's outcomes
type BatchSummary struct {
	TotalProcessed int `json:"total_processed"`
	Successful     int `json:"successful"`
	Failed         int `json:"failed"`
}

// BatchResult splits a batch into successes and per-id failures
type BatchResult[T any] struct {
	Results []T              `json:"results"`
	Errors  []BatchItemError `json:"errors"`
	Summary BatchSummary     `json:"summary"`
}

// ModelStatus describes the calculators currently in use
type ModelStatus struct {
	Models       map[string]bool               `json:"models"`
	Version      string                        `json:"version"`
	Weights      map[string]map[string]float64 `json:"weights"`
	Placeholders map[string]float64            `json:"placeholders"`
	CheckedAt    time.Time                     `json:"checked_at"`
}

// Actor is the authenticated caller of an operation
type Actor struct {
	UserID uuid.UUID
	Role   string
}

// IsAdmin reports whether the actor holds the admin role
func (a Actor) IsAdmin() bool {
	return a.Role == string(models.RoleAdmin)
}
