package service

import (
	"context"
	"testing"

	"judgeboard/internal/common"
	"judgeboard/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTeamService_Create(t *testing.T) {
	t.Run("slug derived from the name", func(t *testing.T) {
		teamRepo := new(MockTeamRepository)
		svc := NewTeamService(teamRepo, new(MockScoreRepository), newTxDB(t), nil)

		var createdID string
		teamRepo.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(team *model.Team) bool {
			createdID = team.ID
			return team.Name == "Moon Shot!" && team.Slug == "moon-shot"
		})).Return(nil).Once()
		teamRepo.On("FindByID", mock.Anything, mock.AnythingOfType("string")).
			Return(&model.Team{ID: "t1", Name: "Moon Shot!", Slug: "moon-shot"}, nil).Once()

		team, err := svc.Create(context.Background(), CreateTeamRequest{Name: "Moon Shot!"})
		require.NoError(t, err)
		assert.NotEmpty(t, createdID)
		assert.Equal(t, "moon-shot", team.Slug)
	})

	t.Run("duplicate slug surfaces as conflict", func(t *testing.T) {
		teamRepo := new(MockTeamRepository)
		svc := NewTeamService(teamRepo, new(MockScoreRepository), newTxDB(t), nil)

		teamRepo.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("*model.Team")).
			Return(common.ErrConflict).Once()

		_, err := svc.Create(context.Background(), CreateTeamRequest{Name: "Moon Shot!"})
		assert.ErrorIs(t, err, common.ErrConflict)
	})

	t.Run("missing name fails validation", func(t *testing.T) {
		teamRepo := new(MockTeamRepository)
		svc := NewTeamService(teamRepo, new(MockScoreRepository), newTxDB(t), nil)

		_, err := svc.Create(context.Background(), CreateTeamRequest{})
		assert.ErrorIs(t, err, common.ErrValidation)
		teamRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestTeamService_Delete(t *testing.T) {
	t.Run("removes the team and its scores", func(t *testing.T) {
		teamRepo := new(MockTeamRepository)
		scoreRepo := new(MockScoreRepository)
		svc := NewTeamService(teamRepo, scoreRepo, newTxDB(t), nil)

		teamRepo.On("FindByID", mock.Anything, "t1").
			Return(&model.Team{ID: "t1", Name: "Rocket"}, nil).Once()
		scoreRepo.On("DeleteByTeam", mock.Anything, mock.Anything, "t1").Return(nil).Once()
		teamRepo.On("Delete", mock.Anything, mock.Anything, "t1").Return(nil).Once()

		require.NoError(t, svc.Delete(context.Background(), "t1"))
		scoreRepo.AssertExpectations(t)
		teamRepo.AssertExpectations(t)
	})

	t.Run("unknown team", func(t *testing.T) {
		teamRepo := new(MockTeamRepository)
		svc := NewTeamService(teamRepo, new(MockScoreRepository), newTxDB(t), nil)

		teamRepo.On("FindByID", mock.Anything, "ghost").Return(nil, common.ErrNotFound).Once()

		assert.ErrorIs(t, svc.Delete(context.Background(), "ghost"), common.ErrNotFound)
	})
}
