package models

import (
	"time"

	"github.com/google/uuid"
)

// LeaderRole is a leadership position inside an investment pool
type LeaderRole string

const (
	LeaderRoleChairperson        LeaderRole = "chairperson"
	LeaderRoleSecretary          LeaderRole = "secretary"
	LeaderRoleTreasurer          LeaderRole = "treasurer"
	LeaderRoleInvestmentsOfficer LeaderRole = "investments_officer"
)

// ValidLeaderRoles lists every accepted leadership role
var ValidLeaderRoles = []LeaderRole{
	LeaderRoleChairperson,
	LeaderRoleSecretary,
	LeaderRoleTreasurer,
	LeaderRoleInvestmentsOfficer,
}

// IsValid returns true if r is a known leadership role
func (r LeaderRole) IsValid() bool {
	for _, v := range ValidLeaderRoles {
		if r == v {
			return true
		}
	}
	return false
}

// PoolLeaderPerformance tracks one leadership role held by one user in one pool
type PoolLeaderPerformance struct {
	ID                      uuid.UUID  `json:"id" db:"id"`
	PoolID                  uuid.UUID  `json:"pool_id" db:"pool_id"`
	UserID                  uuid.UUID  `json:"user_id" db:"user_id"`
	Role                    LeaderRole `json:"role" db:"role"`
	MeetingsCalled          int        `json:"meetings_called" db:"meetings_called"`
	AnnouncementsMade       int        `json:"announcements_made" db:"announcements_made"`
	InvestmentSuccessRate   float64    `json:"investment_success_rate" db:"investment_success_rate"`
	MemberSatisfactionScore float64    `json:"member_satisfaction_score" db:"member_satisfaction_score"`
	OverallScore            *float64   `json:"overall_score,omitempty" db:"overall_score"`
	LastEvaluationDate      *time.Time `json:"last_evaluation_date,omitempty" db:"last_evaluation_date"`
}
