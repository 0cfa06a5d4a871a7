package model

import (
	"time"
)

type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"` // Not exposed
	IsAdmin        bool      `json:"is_admin"`
	CreatedAt      time.Time `json:"created_at"`

	// IDs of the criteria this judge may score. Empty for admins, who
	// are unrestricted.
	AssignedCriteria []string `json:"assigned_criteria"`
}

// CanScoreCriterion reports whether the user may submit scores for the
// given criterion. Admins are never restricted.
func (u *User) CanScoreCriterion(criterionID string) bool {
	if u.IsAdmin {
		return true
	}
	for _, id := range u.AssignedCriteria {
		if id == criterionID {
			return true
		}
	}
	return false
}
