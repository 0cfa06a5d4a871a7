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

type TeamRepository interface {
	Create(ctx context.Context, tx *sql.Tx, team *model.Team) error
	FindByID(ctx context.Context, id string) (*model.Team, error)
	FindBySlug(ctx context.Context, slug string) (*model.Team, error)

	// List returns teams in creation order. Aggregation relies on this
	// order for deterministic tie-breaking in the ranking.
	List(ctx context.Context) ([]model.Team, error)
	Delete(ctx context.Context, tx *sql.Tx, id string) error
}

type pgTeamRepository struct {
	db *sql.DB
}

func NewPgTeamRepository(db *sql.DB) TeamRepository {
	return &pgTeamRepository{db: db}
}

func (r *pgTeamRepository) Create(ctx context.Context, tx *sql.Tx, team *model.Team) error {
	query := `INSERT INTO teams (id, name, slug, description) VALUES ($1, $2, $3, $4)`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, team.ID, team.Name, team.Slug, team.Description)
	} else {
		_, err = r.db.ExecContext(ctx, query, team.ID, team.Name, team.Slug, team.Description)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint for slug
			return fmt.Errorf("team with this name already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgTeamRepository.Create: %w", err)
	}
	return nil
}

func (r *pgTeamRepository) FindByID(ctx context.Context, id string) (*model.Team, error) {
	query := `SELECT id, name, slug, description, created_at FROM teams WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id), "FindByID")
}

func (r *pgTeamRepository) FindBySlug(ctx context.Context, slug string) (*model.Team, error) {
	query := `SELECT id, name, slug, description, created_at FROM teams WHERE slug = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, slug), "FindBySlug")
}

func (r *pgTeamRepository) scanOne(row *sql.Row, op string) (*model.Team, error) {
	team := &model.Team{}
	err := row.Scan(&team.ID, &team.Name, &team.Slug, &team.Description, &team.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgTeamRepository.%s: %w", op, err)
	}
	return team, nil
}

func (r *pgTeamRepository) List(ctx context.Context) ([]model.Team, error) {
	query := `SELECT id, name, slug, description, created_at FROM teams ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgTeamRepository.List: %w", err)
	}
	defer rows.Close()

	var teams []model.Team
	for rows.Next() {
		var team model.Team
		if err := rows.Scan(&team.ID, &team.Name, &team.Slug, &team.Description, &team.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgTeamRepository.List scan: %w", err)
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

func (r *pgTeamRepository) Delete(ctx context.Context, tx *sql.Tx, id string) error {
	query := `DELETE FROM teams WHERE id = $1`

	var res sql.Result
	var err error
	if tx != nil {
		res, err = tx.ExecContext(ctx, query, id)
	} else {
		res, err = r.db.ExecContext(ctx, query, id)
	}
	if err != nil {
		return fmt.Errorf("pgTeamRepository.Delete: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}
