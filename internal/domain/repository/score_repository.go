package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"judgeboard/internal/common"
	"judgeboard/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

const scoreColumns = `id, score, notes, created_at, judge_id, team_id, criteria_id`

type ScoreRepository interface {
	Create(ctx context.Context, tx *sql.Tx, score *model.Score) error

	// UpdateValue overwrites score and notes in place; created_at is
	// deliberately left untouched.
	UpdateValue(ctx context.Context, tx *sql.Tx, id string, score float64, notes string) error

	FindByJudgeTeamCriteria(ctx context.Context, judgeID, teamID, criteriaID string) (*model.Score, error)
	ListByJudge(ctx context.Context, judgeID string) ([]model.Score, error)
	ListByJudgeAndTeam(ctx context.Context, judgeID, teamID string) ([]model.Score, error)

	// ListByTeamAndCriteria returns scores in insertion order; the
	// feedback compiler presents judges in that order.
	ListByTeamAndCriteria(ctx context.Context, teamID, criteriaID string) ([]model.Score, error)

	DeleteByJudge(ctx context.Context, tx *sql.Tx, judgeID string) error
	DeleteByTeam(ctx context.Context, tx *sql.Tx, teamID string) error
}

type pgScoreRepository struct {
	db *sql.DB
}

func NewPgScoreRepository(db *sql.DB) ScoreRepository {
	return &pgScoreRepository{db: db}
}

func (r *pgScoreRepository) Create(ctx context.Context, tx *sql.Tx, s *model.Score) error {
	query := `INSERT INTO scores (id, score, notes, judge_id, team_id, criteria_id)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, s.ID, s.Score, s.Notes, s.JudgeID, s.TeamID, s.CriteriaID)
	} else {
		_, err = r.db.ExecContext(ctx, query, s.ID, s.Score, s.Notes, s.JudgeID, s.TeamID, s.CriteriaID)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // (judge, team, criteria) unique violation
			return fmt.Errorf("score already exists for this judge, team and criterion: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgScoreRepository.Create: %w", err)
	}
	return nil
}

func (r *pgScoreRepository) UpdateValue(ctx context.Context, tx *sql.Tx, id string, score float64, notes string) error {
	query := `UPDATE scores SET score = $1, notes = $2 WHERE id = $3`

	var res sql.Result
	var err error
	if tx != nil {
		res, err = tx.ExecContext(ctx, query, score, notes, id)
	} else {
		res, err = r.db.ExecContext(ctx, query, score, notes, id)
	}
	if err != nil {
		return fmt.Errorf("pgScoreRepository.UpdateValue: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgScoreRepository) FindByJudgeTeamCriteria(ctx context.Context, judgeID, teamID, criteriaID string) (*model.Score, error) {
	query := `SELECT ` + scoreColumns + ` FROM scores
	          WHERE judge_id = $1 AND team_id = $2 AND criteria_id = $3`
	s := &model.Score{}
	err := r.db.QueryRowContext(ctx, query, judgeID, teamID, criteriaID).Scan(
		&s.ID, &s.Score, &s.Notes, &s.CreatedAt, &s.JudgeID, &s.TeamID, &s.CriteriaID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgScoreRepository.FindByJudgeTeamCriteria: %w", err)
	}
	return s, nil
}

func (r *pgScoreRepository) ListByJudge(ctx context.Context, judgeID string) ([]model.Score, error) {
	query := `SELECT ` + scoreColumns + ` FROM scores
	          WHERE judge_id = $1 ORDER BY created_at, id`
	return r.list(ctx, query, judgeID)
}

func (r *pgScoreRepository) ListByJudgeAndTeam(ctx context.Context, judgeID, teamID string) ([]model.Score, error) {
	query := `SELECT ` + scoreColumns + ` FROM scores
	          WHERE judge_id = $1 AND team_id = $2 ORDER BY created_at, id`
	return r.list(ctx, query, judgeID, teamID)
}

func (r *pgScoreRepository) ListByTeamAndCriteria(ctx context.Context, teamID, criteriaID string) ([]model.Score, error) {
	query := `SELECT ` + scoreColumns + ` FROM scores
	          WHERE team_id = $1 AND criteria_id = $2 ORDER BY created_at, id`
	return r.list(ctx, query, teamID, criteriaID)
}

func (r *pgScoreRepository) list(ctx context.Context, query string, args ...interface{}) ([]model.Score, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgScoreRepository.list: %w", err)
	}
	defer rows.Close()

	var scores []model.Score
	for rows.Next() {
		var s model.Score
		if err := rows.Scan(&s.ID, &s.Score, &s.Notes, &s.CreatedAt, &s.JudgeID, &s.TeamID, &s.CriteriaID); err != nil {
			return nil, fmt.Errorf("pgScoreRepository.list scan: %w", err)
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}

func (r *pgScoreRepository) DeleteByJudge(ctx context.Context, tx *sql.Tx, judgeID string) error {
	return r.deleteBy(ctx, tx, `DELETE FROM scores WHERE judge_id = $1`, judgeID, "DeleteByJudge")
}

func (r *pgScoreRepository) DeleteByTeam(ctx context.Context, tx *sql.Tx, teamID string) error {
	return r.deleteBy(ctx, tx, `DELETE FROM scores WHERE team_id = $1`, teamID, "DeleteByTeam")
}

func (r *pgScoreRepository) deleteBy(ctx context.Context, tx *sql.Tx, query, arg, op string) error {
	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, arg)
	} else {
		_, err = r.db.ExecContext(ctx, query, arg)
	}
	if err != nil {
		return fmt.Errorf("pgScoreRepository.%s: %w", op, err)
	}
	return nil
}
