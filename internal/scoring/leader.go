package scoring

import (
	"math"

	"github.com/ajharbinger/poolvest-insights/internal/models"
)

const (
	leaderMeetingsWeight      = 0.25
	leaderAnnouncementsWeight = 0.25
	leaderInvestmentWeight    = 0.3
	leaderSatisfactionWeight  = 0.2

	pointsPerMeeting      = 10
	pointsPerAnnouncement = 15
)

// LeaderPerformanceResult is a pool leader's performance breakdown
type LeaderPerformanceResult struct {
	OverallScore       float64        `json:"overall_score"`
	MeetingsScore      float64        `json:"meetings_score"`
	AnnouncementsScore float64        `json:"announcements_score"`
	InvestmentScore    float64        `json:"investment_score"`
	SatisfactionScore  float64        `json:"satisfaction_score"`
	DutiesPerformed    map[string]int `json:"duties_performed"`
}

// LeaderPerformance scores one leadership role from its activity counters.
// member_satisfaction_score is a 0-1 fraction, investment_success_rate is
// already a percentage.
func (e *ScoringEngine) LeaderPerformance(p models.PoolLeaderPerformance) LeaderPerformanceResult {
	meetings := clamp(math.Min(float64(p.MeetingsCalled*pointsPerMeeting), 100))
	announcements := clamp(math.Min(float64(p.AnnouncementsMade*pointsPerAnnouncement), 100))
	investment := clamp(p.InvestmentSuccessRate)
	satisfaction := clamp(p.MemberSatisfactionScore * 100)

	overall := clamp(leaderMeetingsWeight*meetings +
		leaderAnnouncementsWeight*announcements +
		leaderInvestmentWeight*investment +
		leaderSatisfactionWeight*satisfaction)

	return LeaderPerformanceResult{
		OverallScore:       round2(overall),
		MeetingsScore:      round2(meetings),
		AnnouncementsScore: round2(announcements),
		InvestmentScore:    round2(investment),
		SatisfactionScore:  round2(satisfaction),
		DutiesPerformed: map[string]int{
			"meetings_called":    p.MeetingsCalled,
			"announcements_made": p.AnnouncementsMade,
		},
	}
}
