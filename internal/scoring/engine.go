// Package scoring holds the heuristic insight calculators. Every function in
// this package is pure: the same inputs always give the same breakdown, and
// nothing here touches the database.
package scoring

import "math"

// ModelVersion identifies the heuristic weight set reported by model status
const ModelVersion = "1.0.0"

const (
	minScore = 0.0
	maxScore = 100.0
)

// ScoringEngine computes reliability, risk and leader performance breakdowns
type ScoringEngine struct{}

// NewScoringEngine creates a new scoring engine instance
func NewScoringEngine() *ScoringEngine {
	return &ScoringEngine{}
}

// Weights returns the weighting used by each calculator, keyed by metric
func (e *ScoringEngine) Weights() map[string]map[string]float64 {
	return map[string]map[string]float64{
		"reliability": {
			"milestone_completion": reliabilityMilestoneWeight,
			"communication":        reliabilityCommunicationWeight,
			"agreement_compliance": reliabilityAgreementWeight,
			"time_management":      reliabilityTimeWeight,
		},
		"risk": {
			"financial":    riskFinancialWeight,
			"market":       riskMarketWeight,
			"team":         riskTeamWeight,
			"entrepreneur": riskEntrepreneurWeight,
		},
		"leader_performance": {
			"meetings":      leaderMeetingsWeight,
			"announcements": leaderAnnouncementsWeight,
			"investment":    leaderInvestmentWeight,
			"satisfaction":  leaderSatisfactionWeight,
		},
	}
}

// clamp bounds v to [0, 100]
func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return minScore
	}
	return math.Max(minScore, math.Min(maxScore, v))
}

// round2 rounds to two decimal places
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// percentage returns part/total*100, or 0 for an empty total
func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
