package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Milestone statuses the scoring service cares about
const (
	MilestoneStatusCompleted = "completed"
	AgreementStatusActive    = "active"
)

// Opportunity is an investment opportunity published by an entrepreneur
type Opportunity struct {
	ID                   uuid.UUID       `json:"id" db:"id"`
	EntrepreneurID       uuid.UUID       `json:"entrepreneur_id" db:"entrepreneur_id"`
	Title                string          `json:"title" db:"title"`
	Industry             string          `json:"industry" db:"industry"`
	Location             string          `json:"location" db:"location"`
	FundingTarget        *float64        `json:"funding_target,omitempty" db:"funding_target"`
	ExpectedROI          *float64        `json:"expected_roi,omitempty" db:"expected_roi"`
	InvestmentTermMonths *int            `json:"investment_term_months,omitempty" db:"investment_term_months"`
	TeamSize             *int            `json:"team_size,omitempty" db:"team_size"`
	RiskScore            *float64        `json:"risk_score,omitempty" db:"risk_score"`
	AIInsights           json.RawMessage `json:"ai_insights" db:"ai_insights"`
	CreatedAt            time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at" db:"updated_at"`
}

// Milestone belongs to an opportunity
type Milestone struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	OpportunityID uuid.UUID  `json:"opportunity_id" db:"opportunity_id"`
	Title         string     `json:"title" db:"title"`
	Status        string     `json:"status" db:"status"`
	DueDate       *time.Time `json:"due_date,omitempty" db:"due_date"`
	CompletedDate *time.Time `json:"completed_date,omitempty" db:"completed_date"`
}

// Agreement is a contract held by an entrepreneur
type Agreement struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	EntrepreneurID uuid.UUID  `json:"entrepreneur_id" db:"entrepreneur_id"`
	OpportunityID  *uuid.UUID `json:"opportunity_id,omitempty" db:"opportunity_id"`
	Status         string     `json:"status" db:"status"`
}
