package scoring

import (
	"strings"
	"time"

	"github.com/ajharbinger/poolvest-insights/internal/models"
)

const (
	reliabilityMilestoneWeight     = 0.3
	reliabilityCommunicationWeight = 0.2
	reliabilityAgreementWeight     = 0.3
	reliabilityTimeWeight          = 0.2

	// CommunicationPlaceholder stands in for a communication score until
	// message logs are available as an input.
	CommunicationPlaceholder = 75.0
)

// ReliabilityInput is everything the reliability calculator reads
type ReliabilityInput struct {
	Milestones []models.Milestone
	Agreements []models.Agreement
}

// ReliabilityCounts are the raw tallies behind the sub-scores
type ReliabilityCounts struct {
	TotalMilestones     int `json:"total_milestones"`
	CompletedMilestones int `json:"completed_milestones"`
	OnTimeMilestones    int `json:"on_time_milestones"`
	TotalAgreements     int `json:"total_agreements"`
	ActiveAgreements    int `json:"active_agreements"`
}

// ReliabilityResult is an entrepreneur's reliability breakdown
type ReliabilityResult struct {
	OverallScore       float64            `json:"overall_score"`
	MilestoneScore     float64            `json:"milestone_score"`
	CommunicationScore float64            `json:"communication_score"`
	AgreementScore     float64            `json:"agreement_score"`
	TimeScore          float64            `json:"time_score"`
	Factors            map[string]float64 `json:"factors"`
	Counts             ReliabilityCounts  `json:"counts"`
}

// Reliability scores an entrepreneur's track record
func (e *ScoringEngine) Reliability(in ReliabilityInput) ReliabilityResult {
	counts := ReliabilityCounts{
		TotalMilestones: len(in.Milestones),
		TotalAgreements: len(in.Agreements),
	}

	for _, m := range in.Milestones {
		if !strings.EqualFold(m.Status, models.MilestoneStatusCompleted) {
			continue
		}
		counts.CompletedMilestones++
		if completedOnTime(m) {
			counts.OnTimeMilestones++
		}
	}

	for _, a := range in.Agreements {
		if strings.EqualFold(a.Status, models.AgreementStatusActive) {
			counts.ActiveAgreements++
		}
	}

	milestone := clamp(percentage(counts.CompletedMilestones, counts.TotalMilestones))
	communication := clamp(CommunicationPlaceholder)
	agreement := clamp(percentage(counts.ActiveAgreements, counts.TotalAgreements))
	timeliness := clamp(percentage(counts.OnTimeMilestones, counts.TotalMilestones))

	overall := reliabilityMilestoneWeight*milestone +
		reliabilityCommunicationWeight*communication +
		reliabilityAgreementWeight*agreement +
		reliabilityTimeWeight*timeliness

	result := ReliabilityResult{
		OverallScore:       round2(clamp(overall)),
		MilestoneScore:     round2(milestone),
		CommunicationScore: round2(communication),
		AgreementScore:     round2(agreement),
		TimeScore:          round2(timeliness),
		Counts:             counts,
	}
	result.Factors = map[string]float64{
		"milestone_completion": result.MilestoneScore,
		"communication":        result.CommunicationScore,
		"agreement_compliance": result.AgreementScore,
		"time_management":      result.TimeScore,
	}
	return result
}

// completedOnTime reports whether a completed milestone met its due date. A
// milestone without a due date cannot be late; one without a completion date
// cannot be shown to be on time.
func completedOnTime(m models.Milestone) bool {
	if m.CompletedDate == nil {
		return false
	}
	if m.DueDate == nil {
		return true
	}
	return !dateOnly(*m.CompletedDate).After(dateOnly(*m.DueDate))
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
