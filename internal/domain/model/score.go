package model

import (
	"time"
)

// Score is one judge's score for one team on one criterion. At most one
// row exists per (judge, team, criterion); resubmission overwrites the
// value and notes in place, keeping the original created_at.
type Score struct {
	ID         string    `json:"id"`
	Score      float64   `json:"score"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
	JudgeID    string    `json:"judge_id"`
	TeamID     string    `json:"team_id"`
	CriteriaID string    `json:"criteria_id"`
}
