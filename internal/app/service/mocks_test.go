package service

import (
	"context"
	"database/sql"
	"testing"

	"judgeboard/internal/domain/model"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// newTxDB hands out an in-memory SQLite handle. The repository doubles
// below never touch it; services only need something that can begin and
// commit transactions.
func newTxDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err, "Failed to open in-memory database")
	t.Cleanup(func() {
		require.NoError(t, db.Close(), "Failed to close database")
	})
	return db
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, tx *sql.Tx, user *model.User) error {
	args := m.Called(ctx, tx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, tx *sql.Tx, id string) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func (m *MockUserRepository) SetAdmin(ctx context.Context, tx *sql.Tx, id string, isAdmin bool) error {
	args := m.Called(ctx, tx, id, isAdmin)
	return args.Error(0)
}

func (m *MockUserRepository) SetAssignedCriteria(ctx context.Context, tx *sql.Tx, userID string, criteriaIDs []string) error {
	args := m.Called(ctx, tx, userID, criteriaIDs)
	return args.Error(0)
}

type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) Create(ctx context.Context, tx *sql.Tx, team *model.Team) error {
	args := m.Called(ctx, tx, team)
	return args.Error(0)
}

func (m *MockTeamRepository) FindByID(ctx context.Context, id string) (*model.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Team), args.Error(1)
}

func (m *MockTeamRepository) FindBySlug(ctx context.Context, slug string) (*model.Team, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Team), args.Error(1)
}

func (m *MockTeamRepository) List(ctx context.Context) ([]model.Team, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Team), args.Error(1)
}

func (m *MockTeamRepository) Delete(ctx context.Context, tx *sql.Tx, id string) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

type MockCriteriaRepository struct {
	mock.Mock
}

func (m *MockCriteriaRepository) Create(ctx context.Context, tx *sql.Tx, criterion *model.Criterion) error {
	args := m.Called(ctx, tx, criterion)
	return args.Error(0)
}

func (m *MockCriteriaRepository) Update(ctx context.Context, tx *sql.Tx, criterion *model.Criterion) error {
	args := m.Called(ctx, tx, criterion)
	return args.Error(0)
}

func (m *MockCriteriaRepository) FindByID(ctx context.Context, id string) (*model.Criterion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Criterion), args.Error(1)
}

func (m *MockCriteriaRepository) ListActive(ctx context.Context) ([]model.Criterion, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Criterion), args.Error(1)
}

func (m *MockCriteriaRepository) SumActiveWeights(ctx context.Context, tx *sql.Tx, excludeID string) (float64, error) {
	args := m.Called(ctx, tx, excludeID)
	return args.Get(0).(float64), args.Error(1)
}

type MockScoreRepository struct {
	mock.Mock
}

func (m *MockScoreRepository) Create(ctx context.Context, tx *sql.Tx, score *model.Score) error {
	args := m.Called(ctx, tx, score)
	return args.Error(0)
}

func (m *MockScoreRepository) UpdateValue(ctx context.Context, tx *sql.Tx, id string, score float64, notes string) error {
	args := m.Called(ctx, tx, id, score, notes)
	return args.Error(0)
}

func (m *MockScoreRepository) FindByJudgeTeamCriteria(ctx context.Context, judgeID, teamID, criteriaID string) (*model.Score, error) {
	args := m.Called(ctx, judgeID, teamID, criteriaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Score), args.Error(1)
}

func (m *MockScoreRepository) ListByJudge(ctx context.Context, judgeID string) ([]model.Score, error) {
	args := m.Called(ctx, judgeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Score), args.Error(1)
}

func (m *MockScoreRepository) ListByJudgeAndTeam(ctx context.Context, judgeID, teamID string) ([]model.Score, error) {
	args := m.Called(ctx, judgeID, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Score), args.Error(1)
}

func (m *MockScoreRepository) ListByTeamAndCriteria(ctx context.Context, teamID, criteriaID string) ([]model.Score, error) {
	args := m.Called(ctx, teamID, criteriaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Score), args.Error(1)
}

func (m *MockScoreRepository) DeleteByJudge(ctx context.Context, tx *sql.Tx, judgeID string) error {
	args := m.Called(ctx, tx, judgeID)
	return args.Error(0)
}

func (m *MockScoreRepository) DeleteByTeam(ctx context.Context, tx *sql.Tx, teamID string) error {
	args := m.Called(ctx, tx, teamID)
	return args.Error(0)
}
