package scoring_test

import (
	"testing"
	"time"

	"github.com/ajharbinger/poolvest-insights/internal/models"
	"github.com/ajharbinger/poolvest-insights/internal/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func ptrFloat(v float64) *float64 { return &v }
func ptrInt(v int) *int           { return &v }
func ptrTime(v time.Time) *time.Time {
	return &v
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func inRange(v float64) bool { return v >= 0 && v <= 100 }

func TestReliability(t *testing.T) {
	Convey("Given the scoring engine", t, func() {
		engine := scoring.NewScoringEngine()

		Convey("When an entrepreneur has no milestones and no agreements", func() {
			result := engine.Reliability(scoring.ReliabilityInput{})

			Convey("Then the data-driven sub-scores are zero", func() {
				So(result.MilestoneScore, ShouldEqual, 0)
				So(result.AgreementScore, ShouldEqual, 0)
				So(result.TimeScore, ShouldEqual, 0)
			})

			Convey("And only the communication placeholder contributes", func() {
				So(result.CommunicationScore, ShouldEqual, scoring.CommunicationPlaceholder)
				So(result.OverallScore, ShouldEqual, 15)
			})
		})

		Convey("When an entrepreneur has 4 milestones (3 completed on time) and 2 agreements (1 active)", func() {
			in := scoring.ReliabilityInput{
				Milestones: []models.Milestone{
					{Status: "completed", DueDate: ptrTime(day(2024, 3, 1)), CompletedDate: ptrTime(day(2024, 2, 20))},
					{Status: "completed", DueDate: ptrTime(day(2024, 4, 1)), CompletedDate: ptrTime(day(2024, 4, 1).Add(15 * time.Hour))},
					{Status: "Completed", DueDate: nil, CompletedDate: ptrTime(day(2024, 5, 1))},
					{Status: "pending", DueDate: ptrTime(day(2024, 6, 1))},
				},
				Agreements: []models.Agreement{
					{Status: "active"},
					{Status: "inactive"},
				},
			}
			result := engine.Reliability(in)

			Convey("Then the sub-scores match the worked example", func() {
				So(result.MilestoneScore, ShouldEqual, 75)
				So(result.TimeScore, ShouldEqual, 75)
				So(result.AgreementScore, ShouldEqual, 50)
				So(result.CommunicationScore, ShouldEqual, 75)
				So(result.OverallScore, ShouldEqual, 67.5)
			})

			Convey("And the factors and counts are reported", func() {
				So(result.Factors["milestone_completion"], ShouldEqual, 75)
				So(result.Factors["agreement_compliance"], ShouldEqual, 50)
				So(result.Counts.CompletedMilestones, ShouldEqual, 3)
				So(result.Counts.OnTimeMilestones, ShouldEqual, 3)
				So(result.Counts.ActiveAgreements, ShouldEqual, 1)
			})

			Convey("And repeated calls give identical output", func() {
				So(engine.Reliability(in), ShouldResemble, result)
			})
		})

		Convey("When a milestone is completed after its due date", func() {
			result := engine.Reliability(scoring.ReliabilityInput{
				Milestones: []models.Milestone{
					{Status: "completed", DueDate: ptrTime(day(2024, 1, 1)), CompletedDate: ptrTime(day(2024, 1, 2))},
					{Status: "completed", DueDate: ptrTime(day(2024, 1, 1))},
				},
			})

			Convey("Then it is completed but not on time", func() {
				So(result.MilestoneScore, ShouldEqual, 100)
				So(result.TimeScore, ShouldEqual, 0)
			})
		})
	})
}

func TestRisk(t *testing.T) {
	Convey("Given the scoring engine", t, func() {
		engine := scoring.NewScoringEngine()

		Convey("When assessing the reference technology opportunity", func() {
			result := engine.Risk(scoring.RiskInput{
				FundingTarget:           ptrFloat(2_000_000),
				ExpectedROI:             ptrFloat(80),
				InvestmentTermMonths:    ptrInt(36),
				Industry:                "technology",
				TeamSize:                ptrInt(2),
				EntrepreneurReliability: ptrFloat(60),
			})

			Convey("Then each component matches the worked example", func() {
				So(result.FinancialRisk, ShouldEqual, 60)
				So(result.MarketRisk, ShouldEqual, 50)
				So(result.TeamRisk, ShouldEqual, 70)
				So(result.EntrepreneurRisk, ShouldEqual, 40)
				So(result.OverallRisk, ShouldEqual, 55)
				So(result.RiskLevel, ShouldEqual, scoring.RiskLevelMedium)
			})

			Convey("And only the team recommendation is triggered", func() {
				So(result.Recommendations, ShouldResemble, []string{scoring.RecommendationTeam})
			})
		})

		Convey("When every threshold is low", func() {
			result := engine.Risk(scoring.RiskInput{
				FundingTarget:           ptrFloat(500_000),
				ExpectedROI:             ptrFloat(20),
				InvestmentTermMonths:    ptrInt(12),
				Industry:                "Agriculture",
				TeamSize:                ptrInt(5),
				EntrepreneurReliability: ptrFloat(90),
			})

			Convey("Then the acceptable message is the only recommendation", func() {
				So(result.Recommendations, ShouldResemble, []string{scoring.RecommendationAcceptable})
				So(result.RiskLevel, ShouldEqual, scoring.RiskLevelLow)
			})
		})

		Convey("When optional inputs are missing", func() {
			result := engine.Risk(scoring.RiskInput{Industry: "aerospace"})

			Convey("Then defaults are applied", func() {
				So(result.FinancialRisk, ShouldAlmostEqual, 33.33, 0.001)
				So(result.MarketRisk, ShouldEqual, 45)
				So(result.TeamRisk, ShouldEqual, 50)
				So(result.EntrepreneurRisk, ShouldEqual, 100)
			})

			Convey("And the entrepreneur recommendation fires", func() {
				So(result.Recommendations, ShouldContain, scoring.RecommendationEntrepreneur)
			})
		})

		Convey("When every factor is high", func() {
			result := engine.Risk(scoring.RiskInput{
				FundingTarget:           ptrFloat(5_000_000),
				ExpectedROI:             ptrFloat(120),
				InvestmentTermMonths:    ptrInt(60),
				Industry:                "technology",
				TeamSize:                ptrInt(1),
				EntrepreneurReliability: ptrFloat(10),
			})

			Convey("Then the team and entrepreneur recommendations are returned in order", func() {
				So(result.OverallRisk, ShouldEqual, 65)
				So(result.Recommendations, ShouldResemble, []string{
					scoring.RecommendationTeam,
					scoring.RecommendationEntrepreneur,
				})
				So(result.RiskLevel, ShouldEqual, scoring.RiskLevelHigh)
			})

			Convey("And financial and market risk sit exactly on their thresholds", func() {
				So(result.FinancialRisk, ShouldEqual, 60)
				So(result.MarketRisk, ShouldEqual, 50)
				So(result.Recommendations, ShouldNotContain, scoring.RecommendationFinancial)
				So(result.Recommendations, ShouldNotContain, scoring.RecommendationMarket)
			})
		})
	})
}

func TestLeaderPerformance(t *testing.T) {
	Convey("Given the scoring engine", t, func() {
		engine := scoring.NewScoringEngine()

		Convey("When a treasurer has moderate activity", func() {
			result := engine.LeaderPerformance(models.PoolLeaderPerformance{
				Role:                    models.LeaderRoleTreasurer,
				MeetingsCalled:          4,
				AnnouncementsMade:       2,
				InvestmentSuccessRate:   80,
				MemberSatisfactionScore: 0.9,
			})

			Convey("Then each sub-score follows its formula", func() {
				So(result.MeetingsScore, ShouldEqual, 40)
				So(result.AnnouncementsScore, ShouldEqual, 30)
				So(result.InvestmentScore, ShouldEqual, 80)
				So(result.SatisfactionScore, ShouldEqual, 90)
				So(result.OverallScore, ShouldEqual, 59.5)
			})

			Convey("And the raw counters are echoed", func() {
				So(result.DutiesPerformed["meetings_called"], ShouldEqual, 4)
				So(result.DutiesPerformed["announcements_made"], ShouldEqual, 2)
			})
		})

		Convey("When counters exceed their caps and inputs are out of range", func() {
			result := engine.LeaderPerformance(models.PoolLeaderPerformance{
				MeetingsCalled:          25,
				AnnouncementsMade:       9,
				InvestmentSuccessRate:   140,
				MemberSatisfactionScore: 1.5,
			})

			Convey("Then every score is capped at 100", func() {
				So(result.MeetingsScore, ShouldEqual, 100)
				So(result.AnnouncementsScore, ShouldEqual, 100)
				So(result.InvestmentScore, ShouldEqual, 100)
				So(result.SatisfactionScore, ShouldEqual, 100)
				So(result.OverallScore, ShouldEqual, 100)
			})
		})
	})
}

func TestScoreInvariants(t *testing.T) {
	Convey("Given a spread of inputs", t, func() {
		engine := scoring.NewScoringEngine()

		Convey("Then every returned score stays in [0, 100] and overall is the weighted sum", func() {
			for meetings := 0; meetings <= 12; meetings += 3 {
				for _, rate := range []float64{-10, 0, 35.5, 100} {
					r := engine.LeaderPerformance(models.PoolLeaderPerformance{
						MeetingsCalled:          meetings,
						AnnouncementsMade:       meetings / 2,
						InvestmentSuccessRate:   rate,
						MemberSatisfactionScore: rate / 100,
					})
					So(inRange(r.OverallScore), ShouldBeTrue)
					So(inRange(r.MeetingsScore), ShouldBeTrue)
					So(inRange(r.InvestmentScore), ShouldBeTrue)
					So(inRange(r.SatisfactionScore), ShouldBeTrue)
					weighted := 0.25*r.MeetingsScore + 0.25*r.AnnouncementsScore + 0.3*r.InvestmentScore + 0.2*r.SatisfactionScore
					So(r.OverallScore, ShouldAlmostEqual, weighted, 0.01)
				}
			}

			for _, reliability := range []float64{-5, 0, 33.333, 100, 140} {
				for _, team := range []int{0, 2, 3, 40} {
					r := engine.Risk(scoring.RiskInput{
						TeamSize:                ptrInt(team),
						EntrepreneurReliability: ptrFloat(reliability),
						Industry:                "retail",
					})
					So(inRange(r.OverallRisk), ShouldBeTrue)
					So(inRange(r.EntrepreneurRisk), ShouldBeTrue)
					weighted := 0.3*r.FinancialRisk + 0.3*r.MarketRisk + 0.2*r.TeamRisk + 0.2*r.EntrepreneurRisk
					So(r.OverallRisk, ShouldAlmostEqual, weighted, 0.01)
				}
			}

			rel := engine.Reliability(scoring.ReliabilityInput{
				Milestones: []models.Milestone{{Status: "completed"}, {Status: "pending"}, {Status: "pending"}},
				Agreements: []models.Agreement{{Status: "active"}, {Status: "active"}, {Status: "terminated"}},
			})
			weighted := 0.3*rel.MilestoneScore + 0.2*rel.CommunicationScore + 0.3*rel.AgreementScore + 0.2*rel.TimeScore
			So(rel.OverallScore, ShouldAlmostEqual, weighted, 0.01)
		})
	})
}

func TestWeights(t *testing.T) {
	Convey("Given the published weights", t, func() {
		weights := scoring.NewScoringEngine().Weights()

		Convey("Then each metric's weights sum to one", func() {
			for _, metric := range []string{"reliability", "risk", "leader_performance"} {
				sum := 0.0
				for _, w := range weights[metric] {
					sum += w
				}
				So(sum, ShouldAlmostEqual, 1.0, 1e-9)
			}
		})
	})
}
