package service

import (
	"context"
	"testing"

	"judgeboard/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func scoreRows(values ...float64) []model.Score {
	scores := make([]model.Score, 0, len(values))
	for _, v := range values {
		scores = append(scores, model.Score{Score: v})
	}
	return scores
}

func TestResultService_WeightedAggregation(t *testing.T) {
	teamRepo := new(MockTeamRepository)
	criteriaRepo := new(MockCriteriaRepository)
	scoreRepo := new(MockScoreRepository)
	svc := NewResultService(teamRepo, criteriaRepo, scoreRepo, nil)

	teamRepo.On("List", mock.Anything).Return([]model.Team{
		{ID: "t1", Name: "Rocket"},
	}, nil).Once()
	criteriaRepo.On("ListActive", mock.Anything).Return([]model.Criterion{
		{ID: "cA", Name: "Criterion A", MaxScore: 10.0, WeightPercentage: 60.0, IsActive: true},
		{ID: "cB", Name: "Criterion B", MaxScore: 5.0, WeightPercentage: 40.0, IsActive: true},
	}, nil).Once()
	scoreRepo.On("ListByTeamAndCriteria", mock.Anything, "t1", "cA").
		Return(scoreRows(8, 6), nil).Once()
	scoreRepo.On("ListByTeamAndCriteria", mock.Anything, "t1", "cB").
		Return(scoreRows(5), nil).Once()

	results, err := svc.ComputeResults(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)

	entry := results[0]
	assert.Equal(t, "Rocket", entry.TeamName)
	assert.Equal(t, 100.0, entry.MaxPossible)

	a := entry.Scores["Criterion A"]
	assert.Equal(t, 7.0, a.Average)
	assert.Equal(t, 42.0, a.PercentageEarned)
	assert.Equal(t, 2, a.Count)

	b := entry.Scores["Criterion B"]
	assert.Equal(t, 5.0, b.Average)
	assert.Equal(t, 40.0, b.PercentageEarned)
	assert.Equal(t, 1, b.Count)

	assert.InDelta(t, 82.0, entry.TotalPercentage, 1e-9)
}

func TestResultService_UnscoredCriterionOmitted(t *testing.T) {
	teamRepo := new(MockTeamRepository)
	criteriaRepo := new(MockCriteriaRepository)
	scoreRepo := new(MockScoreRepository)
	svc := NewResultService(teamRepo, criteriaRepo, scoreRepo, nil)

	teamRepo.On("List", mock.Anything).Return([]model.Team{
		{ID: "t1", Name: "Rocket"},
	}, nil).Once()
	criteriaRepo.On("ListActive", mock.Anything).Return([]model.Criterion{
		{ID: "cA", Name: "Criterion A", MaxScore: 10.0, WeightPercentage: 60.0, IsActive: true},
		{ID: "cB", Name: "Criterion B", MaxScore: 5.0, WeightPercentage: 40.0, IsActive: true},
	}, nil).Once()
	scoreRepo.On("ListByTeamAndCriteria", mock.Anything, "t1", "cA").
		Return(scoreRows(8, 6), nil).Once()
	scoreRepo.On("ListByTeamAndCriteria", mock.Anything, "t1", "cB").
		Return([]model.Score{}, nil).Once()

	results, err := svc.ComputeResults(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)

	entry := results[0]
	// The unscored criterion neither appears nor rescales the total, and
	// max_possible is unaffected.
	assert.NotContains(t, entry.Scores, "Criterion B")
	assert.InDelta(t, 42.0, entry.TotalPercentage, 1e-9)
	assert.Equal(t, 100.0, entry.MaxPossible)
}

func TestResultService_RankingAndTieStability(t *testing.T) {
	teamRepo := new(MockTeamRepository)
	criteriaRepo := new(MockCriteriaRepository)
	scoreRepo := new(MockScoreRepository)
	svc := NewResultService(teamRepo, criteriaRepo, scoreRepo, nil)

	// Listed in creation order: low scorer first, then two tied teams.
	teamRepo.On("List", mock.Anything).Return([]model.Team{
		{ID: "t1", Name: "Trailing"},
		{ID: "t2", Name: "Tied First"},
		{ID: "t3", Name: "Tied Second"},
	}, nil).Once()
	criteriaRepo.On("ListActive", mock.Anything).Return([]model.Criterion{
		{ID: "cA", Name: "Overall", MaxScore: 10.0, WeightPercentage: 100.0, IsActive: true},
	}, nil).Once()
	scoreRepo.On("ListByTeamAndCriteria", mock.Anything, "t1", "cA").
		Return(scoreRows(2), nil).Once()
	scoreRepo.On("ListByTeamAndCriteria", mock.Anything, "t2", "cA").
		Return(scoreRows(9), nil).Once()
	scoreRepo.On("ListByTeamAndCriteria", mock.Anything, "t3", "cA").
		Return(scoreRows(9), nil).Once()

	results, err := svc.ComputeResults(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "Tied First", results[0].TeamName)
	assert.Equal(t, "Tied Second", results[1].TeamName)
	assert.Equal(t, "Trailing", results[2].TeamName)
}

func TestResultService_TeamWithNoScores(t *testing.T) {
	teamRepo := new(MockTeamRepository)
	criteriaRepo := new(MockCriteriaRepository)
	scoreRepo := new(MockScoreRepository)
	svc := NewResultService(teamRepo, criteriaRepo, scoreRepo, nil)

	teamRepo.On("List", mock.Anything).Return([]model.Team{
		{ID: "t1", Name: "Unscored"},
	}, nil).Once()
	criteriaRepo.On("ListActive", mock.Anything).Return([]model.Criterion{
		{ID: "cA", Name: "Overall", MaxScore: 10.0, WeightPercentage: 100.0, IsActive: true},
	}, nil).Once()
	scoreRepo.On("ListByTeamAndCriteria", mock.Anything, "t1", "cA").
		Return([]model.Score{}, nil).Once()

	results, err := svc.ComputeResults(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Empty(t, results[0].Scores)
	assert.Equal(t, 0.0, results[0].TotalPercentage)
	assert.Equal(t, 100.0, results[0].MaxPossible)
}
