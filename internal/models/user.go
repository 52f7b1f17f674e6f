package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a platform account. Only the fields the insights service
// reads or writes are mapped.
type User struct {
	ID               uuid.UUID `json:"id" db:"id"`
	Email            string    `json:"email" db:"email"`
	FullName         string    `json:"full_name" db:"full_name"`
	Role             string    `json:"role" db:"role"`
	ReliabilityScore *float64  `json:"reliability_score,omitempty" db:"reliability_score"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// UserRole represents available user roles
type UserRole string

const (
	RoleInvestor        UserRole = "investor"
	RoleEntrepreneur    UserRole = "entrepreneur"
	RoleServiceProvider UserRole = "service_provider"
	RoleAdmin           UserRole = "admin"
	RoleObserver        UserRole = "observer"
)

// IsAdmin returns true if user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == string(RoleAdmin)
}

// IsEntrepreneur returns true if user has entrepreneur role
func (u *User) IsEntrepreneur() bool {
	return u.Role == string(RoleEntrepreneur)
}

// ReliabilityOrZero returns the stored reliability score, or 0 when the user
// has never been scored.
func (u *User) ReliabilityOrZero() float64 {
	if u.ReliabilityScore == nil {
		return 0
	}
	return *u.ReliabilityScore
}
