package model

import (
	"time"
)

// CriterionResult is one criterion's contribution to a team's total.
// percentage_earned = (average / max) * weight_percentage.
type CriterionResult struct {
	Average          float64 `json:"average"`
	Max              float64 `json:"max"`
	WeightPercentage float64 `json:"weight_percentage"`
	PercentageEarned float64 `json:"percentage_earned"`
	Count            int     `json:"count"`
}

// TeamResult is one entry of the ranked results list. Scores is keyed by
// criterion name; criteria nobody scored for the team are absent.
// MaxPossible is always 100.0: totals are weight-normalized, not raw sums.
type TeamResult struct {
	TeamID          string                     `json:"team_id"`
	TeamName        string                     `json:"team_name"`
	Scores          map[string]CriterionResult `json:"scores"`
	TotalPercentage float64                    `json:"total_percentage"`
	MaxPossible     float64                    `json:"max_possible"`
}

type JudgeFeedback struct {
	JudgeName string    `json:"judge_name"`
	Score     float64   `json:"score"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

type CriterionFeedback struct {
	CriteriaName        string          `json:"criteria_name"`
	CriteriaDescription string          `json:"criteria_description"`
	MaxScore            float64         `json:"max_score"`
	AverageScore        float64         `json:"average_score"`
	JudgeFeedback       []JudgeFeedback `json:"judge_feedback"`
}

type TeamFeedback struct {
	TeamID           string              `json:"team_id"`
	TeamName         string              `json:"team_name"`
	TeamDescription  string              `json:"team_description"`
	CriteriaFeedback []CriterionFeedback `json:"criteria_feedback"`
}
