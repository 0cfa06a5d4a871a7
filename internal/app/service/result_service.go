package service

import (
	"context"
	"sort"

	"judgeboard/internal/common"
	"judgeboard/internal/domain/model"
	"judgeboard/internal/domain/repository"
	"judgeboard/internal/metrics"
	"judgeboard/internal/platform/cache"
)

// ResultService turns the raw score ledger into a weighted ranking.
//
// For every team and every active criterion with at least one score, the
// cross-judge average is converted into a percentage contribution:
//
//	percentage_earned = (average / max_score) * weight_percentage
//
// and the contributions sum into the team's total. Criteria nobody
// scored contribute nothing and are omitted from the breakdown; the
// total is never rescaled to compensate. max_possible stays 100.0.
type ResultService struct {
	teamRepo     repository.TeamRepository
	criteriaRepo repository.CriteriaRepository
	scoreRepo    repository.ScoreRepository
	resultsCache *cache.ResultsCache
}

func NewResultService(
	teamRepo repository.TeamRepository,
	criteriaRepo repository.CriteriaRepository,
	scoreRepo repository.ScoreRepository,
	resultsCache *cache.ResultsCache,
) *ResultService {
	return &ResultService{
		teamRepo:     teamRepo,
		criteriaRepo: criteriaRepo,
		scoreRepo:    scoreRepo,
		resultsCache: resultsCache,
	}
}

func (s *ResultService) ComputeResults(ctx context.Context) ([]model.TeamResult, error) {
	var cached []model.TeamResult
	if s.resultsCache.Get(ctx, &cached) {
		metrics.ResultsComputationsTotal.WithLabelValues("cache").Inc()
		return cached, nil
	}

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, common.Errorf("failed to list teams: %w", err)
	}
	criteria, err := s.criteriaRepo.ListActive(ctx)
	if err != nil {
		return nil, common.Errorf("failed to list active criteria: %w", err)
	}

	results := make([]model.TeamResult, 0, len(teams))
	for _, team := range teams {
		entry := model.TeamResult{
			TeamID:      team.ID,
			TeamName:    team.Name,
			Scores:      map[string]model.CriterionResult{},
			MaxPossible: model.MaxTotalWeight,
		}

		for _, criterion := range criteria {
			scores, err := s.scoreRepo.ListByTeamAndCriteria(ctx, team.ID, criterion.ID)
			if err != nil {
				return nil, common.Errorf("failed to list scores for team %s: %w", team.ID, err)
			}
			if len(scores) == 0 {
				continue
			}

			var sum float64
			for _, score := range scores {
				sum += score.Score
			}
			average := sum / float64(len(scores))
			earned := (average / criterion.MaxScore) * criterion.WeightPercentage

			entry.Scores[criterion.Name] = model.CriterionResult{
				Average:          average,
				Max:              criterion.MaxScore,
				WeightPercentage: criterion.WeightPercentage,
				PercentageEarned: earned,
				Count:            len(scores),
			}
			entry.TotalPercentage += earned
		}

		results = append(results, entry)
	}

	// Stable sort: teams tied on total keep their creation order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TotalPercentage > results[j].TotalPercentage
	})

	metrics.ResultsComputationsTotal.WithLabelValues("store").Inc()
	s.resultsCache.Set(ctx, results)
	return results, nil
}
