package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"judgeboard/internal/common"
	"judgeboard/internal/domain/model"
)

type CriteriaRepository interface {
	Create(ctx context.Context, tx *sql.Tx, criterion *model.Criterion) error
	Update(ctx context.Context, tx *sql.Tx, criterion *model.Criterion) error
	FindByID(ctx context.Context, id string) (*model.Criterion, error)

	// ListActive returns active criteria in insertion order.
	ListActive(ctx context.Context) ([]model.Criterion, error)

	// SumActiveWeights totals weight_percentage over active criteria,
	// excluding excludeID (pass "" to exclude nothing). Runs on the tx
	// when given so the weight check and the write share one
	// transactional boundary.
	SumActiveWeights(ctx context.Context, tx *sql.Tx, excludeID string) (float64, error)
}

type pgCriteriaRepository struct {
	db *sql.DB
}

func NewPgCriteriaRepository(db *sql.DB) CriteriaRepository {
	return &pgCriteriaRepository{db: db}
}

func (r *pgCriteriaRepository) Create(ctx context.Context, tx *sql.Tx, c *model.Criterion) error {
	query := `INSERT INTO criteria (id, name, description, max_score, weight_percentage, is_active)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, c.ID, c.Name, c.Description, c.MaxScore, c.WeightPercentage, c.IsActive)
	} else {
		_, err = r.db.ExecContext(ctx, query, c.ID, c.Name, c.Description, c.MaxScore, c.WeightPercentage, c.IsActive)
	}
	if err != nil {
		return fmt.Errorf("pgCriteriaRepository.Create: %w", err)
	}
	return nil
}

func (r *pgCriteriaRepository) Update(ctx context.Context, tx *sql.Tx, c *model.Criterion) error {
	query := `UPDATE criteria SET name = $1, description = $2, max_score = $3,
	          weight_percentage = $4, is_active = $5 WHERE id = $6`

	var res sql.Result
	var err error
	if tx != nil {
		res, err = tx.ExecContext(ctx, query, c.Name, c.Description, c.MaxScore, c.WeightPercentage, c.IsActive, c.ID)
	} else {
		res, err = r.db.ExecContext(ctx, query, c.Name, c.Description, c.MaxScore, c.WeightPercentage, c.IsActive, c.ID)
	}
	if err != nil {
		return fmt.Errorf("pgCriteriaRepository.Update: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgCriteriaRepository) FindByID(ctx context.Context, id string) (*model.Criterion, error) {
	query := `SELECT id, name, description, max_score, weight_percentage, is_active, created_at
	          FROM criteria WHERE id = $1`
	c := &model.Criterion{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Description, &c.MaxScore, &c.WeightPercentage, &c.IsActive, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgCriteriaRepository.FindByID: %w", err)
	}
	return c, nil
}

func (r *pgCriteriaRepository) ListActive(ctx context.Context) ([]model.Criterion, error) {
	query := `SELECT id, name, description, max_score, weight_percentage, is_active, created_at
	          FROM criteria WHERE is_active = TRUE ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgCriteriaRepository.ListActive: %w", err)
	}
	defer rows.Close()

	var criteria []model.Criterion
	for rows.Next() {
		var c model.Criterion
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.MaxScore, &c.WeightPercentage, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgCriteriaRepository.ListActive scan: %w", err)
		}
		criteria = append(criteria, c)
	}
	return criteria, rows.Err()
}

func (r *pgCriteriaRepository) SumActiveWeights(ctx context.Context, tx *sql.Tx, excludeID string) (float64, error) {
	query := `SELECT COALESCE(SUM(weight_percentage), 0) FROM criteria
	          WHERE is_active = TRUE AND id <> $1`

	var total float64
	var err error
	if tx != nil {
		err = tx.QueryRowContext(ctx, query, excludeID).Scan(&total)
	} else {
		err = r.db.QueryRowContext(ctx, query, excludeID).Scan(&total)
	}
	if err != nil {
		return 0, fmt.Errorf("pgCriteriaRepository.SumActiveWeights: %w", err)
	}
	return total, nil
}
