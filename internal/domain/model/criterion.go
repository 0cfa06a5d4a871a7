package model

import (
	"time"
)

const (
	DefaultMaxScore         = 10.0
	DefaultWeightPercentage = 10.0

	// MaxTotalWeight is the ceiling for the sum of weight_percentage
	// over all active criteria.
	MaxTotalWeight = 100.0
)

type Criterion struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	MaxScore         float64   `json:"max_score"`
	WeightPercentage float64   `json:"weight_percentage"`
	IsActive         bool      `json:"-"` // internal; inactive criteria are simply omitted from reads
	CreatedAt        time.Time `json:"-"`
}

type WeightSummary struct {
	TotalWeight float64 `json:"total_weight"`
	Remaining   float64 `json:"remaining"`
	IsValid     bool    `json:"is_valid"`
}
