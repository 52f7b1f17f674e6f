package scoring

import (
	"strings"

	"github.com/ajharbinger/poolvest-insights/internal/models"
)

const (
	riskFinancialWeight    = 0.3
	riskMarketWeight       = 0.3
	riskTeamWeight         = 0.2
	riskEntrepreneurWeight = 0.2

	// LocationRiskPlaceholder is used for every location until regional risk
	// data is available as an input.
	LocationRiskPlaceholder = 40.0

	defaultIndustryRisk = 50.0
	unknownTeamRisk     = 50.0
)

// Risk level labels
const (
	RiskLevelLow    = "low"
	RiskLevelMedium = "medium"
	RiskLevelHigh   = "high"
)

// Recommendation texts
const (
	RecommendationFinancial    = "Consider reducing the funding target or shortening the investment term to limit financial exposure"
	RecommendationMarket       = "Conduct a detailed market analysis to validate demand and competitive position in this industry"
	RecommendationTeam         = "Strengthen the team with experienced members in key operational roles before raising funds"
	RecommendationEntrepreneur = "Perform additional due diligence on the entrepreneur's milestone and agreement track record"
	RecommendationAcceptable   = "Risk level is acceptable for investment consideration"
)

var industryRisk = map[string]float64{
	"technology":    60,
	"healthcare":    40,
	"finance":       50,
	"manufacturing": 45,
	"retail":        55,
	"agriculture":   35,
}

// RiskInput is everything the risk calculator reads
type RiskInput struct {
	FundingTarget           *float64
	ExpectedROI             *float64
	InvestmentTermMonths    *int
	Industry                string
	Location                string
	TeamSize                *int
	EntrepreneurReliability *float64
}

// NewRiskInput builds the calculator input from an opportunity and its
// entrepreneur
func NewRiskInput(opp *models.Opportunity, entrepreneur *models.User) RiskInput {
	in := RiskInput{
		FundingTarget:        opp.FundingTarget,
		ExpectedROI:          opp.ExpectedROI,
		InvestmentTermMonths: opp.InvestmentTermMonths,
		Industry:             opp.Industry,
		Location:             opp.Location,
		TeamSize:             opp.TeamSize,
	}
	if entrepreneur != nil {
		in.EntrepreneurReliability = entrepreneur.ReliabilityScore
	}
	return in
}

// RiskResult is an opportunity's risk breakdown
type RiskResult struct {
	OverallRisk      float64  `json:"overall_risk"`
	FinancialRisk    float64  `json:"financial_risk"`
	MarketRisk       float64  `json:"market_risk"`
	TeamRisk         float64  `json:"team_risk"`
	EntrepreneurRisk float64  `json:"entrepreneur_risk"`
	RiskLevel        string   `json:"risk_level"`
	Recommendations  []string `json:"recommendations"`
}

// Risk assesses an investment opportunity
func (e *ScoringEngine) Risk(in RiskInput) RiskResult {
	financial := clamp(financialRisk(in))
	market := clamp(marketRisk(in))
	team := clamp(teamRisk(in.TeamSize))

	reliability := 0.0
	if in.EntrepreneurReliability != nil {
		reliability = clamp(*in.EntrepreneurReliability)
	}
	entrepreneur := clamp(100 - reliability)

	overall := clamp(riskFinancialWeight*financial +
		riskMarketWeight*market +
		riskTeamWeight*team +
		riskEntrepreneurWeight*entrepreneur)

	return RiskResult{
		OverallRisk:      round2(overall),
		FinancialRisk:    round2(financial),
		MarketRisk:       round2(market),
		TeamRisk:         round2(team),
		EntrepreneurRisk: round2(entrepreneur),
		RiskLevel:        riskLevel(overall),
		Recommendations:  recommendations(financial, market, team, entrepreneur),
	}
}

func financialRisk(in RiskInput) float64 {
	funding := 40.0
	if in.FundingTarget != nil && *in.FundingTarget > 1_000_000 {
		funding = 70
	}
	roi := 30.0
	if in.ExpectedROI != nil && *in.ExpectedROI > 50 {
		roi = 60
	}
	term := 30.0
	if in.InvestmentTermMonths != nil && *in.InvestmentTermMonths > 24 {
		term = 50
	}
	return (funding + roi + term) / 3
}

func marketRisk(in RiskInput) float64 {
	industry, ok := industryRisk[strings.ToLower(strings.TrimSpace(in.Industry))]
	if !ok {
		industry = defaultIndustryRisk
	}
	return (industry + LocationRiskPlaceholder) / 2
}

func teamRisk(teamSize *int) float64 {
	if teamSize == nil {
		return unknownTeamRisk
	}
	if *teamSize < 3 {
		return 70
	}
	return 30
}

func riskLevel(overall float64) string {
	switch {
	case overall < 40:
		return RiskLevelLow
	case overall < 60:
		return RiskLevelMedium
	default:
		return RiskLevelHigh
	}
}

func recommendations(financial, market, team, entrepreneur float64) []string {
	var out []string
	if financial > 60 {
		out = append(out, RecommendationFinancial)
	}
	if market > 50 {
		out = append(out, RecommendationMarket)
	}
	if team > 60 {
		out = append(out, RecommendationTeam)
	}
	if entrepreneur > 70 {
		out = append(out, RecommendationEntrepreneur)
	}
	if len(out) == 0 {
		out = append(out, RecommendationAcceptable)
	}
	return out
}
