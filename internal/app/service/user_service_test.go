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

func boolPtr(b bool) *bool { return &b }

func TestUserService_Update(t *testing.T) {
	t.Run("reassigning criteria", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewUserService(userRepo, new(MockScoreRepository), newTxDB(t), nil)

		judge := &model.User{ID: "j1", Username: "ada", AssignedCriteria: []string{"c1"}}
		updated := &model.User{ID: "j1", Username: "ada", AssignedCriteria: []string{"c2", "c3"}}
		userRepo.On("FindByID", mock.Anything, "j1").Return(judge, nil).Once()
		userRepo.On("SetAssignedCriteria", mock.Anything, mock.Anything, "j1", []string{"c2", "c3"}).
			Return(nil).Once()
		userRepo.On("FindByID", mock.Anything, "j1").Return(updated, nil).Once()

		assigned := []string{"c2", "c3"}
		got, err := svc.Update(context.Background(), "j1", UpdateUserRequest{AssignedCriteria: &assigned})
		require.NoError(t, err)
		assert.Equal(t, []string{"c2", "c3"}, got.AssignedCriteria)
		userRepo.AssertNotCalled(t, "SetAdmin", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("stripping every assignment from a judge is rejected", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewUserService(userRepo, new(MockScoreRepository), newTxDB(t), nil)

		judge := &model.User{ID: "j1", Username: "ada", AssignedCriteria: []string{"c1"}}
		userRepo.On("FindByID", mock.Anything, "j1").Return(judge, nil).Once()

		empty := []string{}
		_, err := svc.Update(context.Background(), "j1", UpdateUserRequest{AssignedCriteria: &empty})
		assert.ErrorIs(t, err, common.ErrValidation)
		userRepo.AssertNotCalled(t, "SetAssignedCriteria", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("promoting a judge to admin", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewUserService(userRepo, new(MockScoreRepository), newTxDB(t), nil)

		judge := &model.User{ID: "j1", Username: "ada"}
		promoted := &model.User{ID: "j1", Username: "ada", IsAdmin: true}
		userRepo.On("FindByID", mock.Anything, "j1").Return(judge, nil).Once()
		userRepo.On("SetAdmin", mock.Anything, mock.Anything, "j1", true).Return(nil).Once()
		userRepo.On("FindByID", mock.Anything, "j1").Return(promoted, nil).Once()

		got, err := svc.Update(context.Background(), "j1", UpdateUserRequest{IsAdmin: boolPtr(true)})
		require.NoError(t, err)
		assert.True(t, got.IsAdmin)
	})

	t.Run("unknown user", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewUserService(userRepo, new(MockScoreRepository), newTxDB(t), nil)

		userRepo.On("FindByID", mock.Anything, "ghost").Return(nil, common.ErrNotFound).Once()

		_, err := svc.Update(context.Background(), "ghost", UpdateUserRequest{})
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestUserService_Delete(t *testing.T) {
	t.Run("removes the user and their scores", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		scoreRepo := new(MockScoreRepository)
		svc := NewUserService(userRepo, scoreRepo, newTxDB(t), nil)

		userRepo.On("FindByID", mock.Anything, "j1").
			Return(&model.User{ID: "j1", Username: "ada"}, nil).Once()
		scoreRepo.On("DeleteByJudge", mock.Anything, mock.Anything, "j1").Return(nil).Once()
		userRepo.On("Delete", mock.Anything, mock.Anything, "j1").Return(nil).Once()

		require.NoError(t, svc.Delete(context.Background(), "admin-1", "j1"))
		scoreRepo.AssertExpectations(t)
		userRepo.AssertExpectations(t)
	})

	t.Run("self-deletion is rejected", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewUserService(userRepo, new(MockScoreRepository), newTxDB(t), nil)

		err := svc.Delete(context.Background(), "admin-1", "admin-1")
		assert.ErrorIs(t, err, common.ErrBadRequest)
		userRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown user", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewUserService(userRepo, new(MockScoreRepository), newTxDB(t), nil)

		userRepo.On("FindByID", mock.Anything, "ghost").Return(nil, common.ErrNotFound).Once()

		assert.ErrorIs(t, svc.Delete(context.Background(), "admin-1", "ghost"), common.ErrNotFound)
	})
}

func TestUserService_EnsureAdmin(t *testing.T) {
	t.Run("creates the account when absent", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewUserService(userRepo, new(MockScoreRepository), newTxDB(t), nil)

		userRepo.On("FindByUsername", mock.Anything, "root").Return(nil, common.ErrNotFound).Once()
		userRepo.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Username == "root" && u.IsAdmin && u.HashedPassword != ""
		})).Return(nil).Once()

		require.NoError(t, svc.EnsureAdmin(context.Background(), "root", "changeme123"))
		userRepo.AssertExpectations(t)
	})

	t.Run("no-op when the account exists", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewUserService(userRepo, new(MockScoreRepository), newTxDB(t), nil)

		userRepo.On("FindByUsername", mock.Anything, "root").
			Return(&model.User{ID: "u1", Username: "root", IsAdmin: true}, nil).Once()

		require.NoError(t, svc.EnsureAdmin(context.Background(), "root", "changeme123"))
		userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("skipped without configured credentials", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewUserService(userRepo, new(MockScoreRepository), newTxDB(t), nil)

		require.NoError(t, svc.EnsureAdmin(context.Background(), "", ""))
		userRepo.AssertNotCalled(t, "FindByUsername", mock.Anything, mock.Anything)
	})
}
