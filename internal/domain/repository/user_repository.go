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

type UserRepository interface {
	Create(ctx context.Context, tx *sql.Tx, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Delete(ctx context.Context, tx *sql.Tx, id string) error
	SetAdmin(ctx context.Context, tx *sql.Tx, id string, isAdmin bool) error

	// SetAssignedCriteria replaces the judge's criteria assignments.
	SetAssignedCriteria(ctx context.Context, tx *sql.Tx, userID string, criteriaIDs []string) error
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

func (r *pgUserRepository) Create(ctx context.Context, tx *sql.Tx, user *model.User) error {
	query := `INSERT INTO users (id, username, hashed_password, is_admin)
	          VALUES ($1, $2, $3, $4)`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, user.ID, user.Username, user.HashedPassword, user.IsAdmin)
	} else {
		_, err = r.db.ExecContext(ctx, query, user.ID, user.Username, user.HashedPassword, user.IsAdmin)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint violation
			return fmt.Errorf("user with given username already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgUserRepository.Create: %w", err)
	}
	return nil
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT id, username, hashed_password, is_admin, created_at
	          FROM users WHERE id = $1`
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.HashedPassword, &user.IsAdmin, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.FindByID: %w", err)
	}
	if err := r.loadAssignedCriteria(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *pgUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT id, username, hashed_password, is_admin, created_at
	          FROM users WHERE username = $1`
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.HashedPassword, &user.IsAdmin, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.FindByUsername: %w", err)
	}
	if err := r.loadAssignedCriteria(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *pgUserRepository) List(ctx context.Context) ([]model.User, error) {
	query := `SELECT id, username, hashed_password, is_admin, created_at
	          FROM users ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgUserRepository.List: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var user model.User
		if err := rows.Scan(&user.ID, &user.Username, &user.HashedPassword, &user.IsAdmin, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgUserRepository.List scan: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgUserRepository.List rows: %w", err)
	}
	for i := range users {
		if err := r.loadAssignedCriteria(ctx, &users[i]); err != nil {
			return nil, err
		}
	}
	return users, nil
}

func (r *pgUserRepository) Delete(ctx context.Context, tx *sql.Tx, id string) error {
	// user_criteria rows go with the user via ON DELETE CASCADE
	query := `DELETE FROM users WHERE id = $1`

	var res sql.Result
	var err error
	if tx != nil {
		res, err = tx.ExecContext(ctx, query, id)
	} else {
		res, err = r.db.ExecContext(ctx, query, id)
	}
	if err != nil {
		return fmt.Errorf("pgUserRepository.Delete: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgUserRepository) SetAdmin(ctx context.Context, tx *sql.Tx, id string, isAdmin bool) error {
	query := `UPDATE users SET is_admin = $1 WHERE id = $2`

	var res sql.Result
	var err error
	if tx != nil {
		res, err = tx.ExecContext(ctx, query, isAdmin, id)
	} else {
		res, err = r.db.ExecContext(ctx, query, isAdmin, id)
	}
	if err != nil {
		return fmt.Errorf("pgUserRepository.SetAdmin: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgUserRepository) SetAssignedCriteria(ctx context.Context, tx *sql.Tx, userID string, criteriaIDs []string) error {
	del := `DELETE FROM user_criteria WHERE user_id = $1`
	ins := `INSERT INTO user_criteria (user_id, criteria_id) VALUES ($1, $2)`

	exec := r.db.ExecContext
	if tx != nil {
		exec = tx.ExecContext
	}

	if _, err := exec(ctx, del, userID); err != nil {
		return fmt.Errorf("pgUserRepository.SetAssignedCriteria clear: %w", err)
	}
	for _, criteriaID := range criteriaIDs {
		if _, err := exec(ctx, ins, userID, criteriaID); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" { // FK violation: unknown criterion
				return fmt.Errorf("criterion %s does not exist: %w", criteriaID, common.ErrNotFound)
			}
			return fmt.Errorf("pgUserRepository.SetAssignedCriteria insert: %w", err)
		}
	}
	return nil
}

func (r *pgUserRepository) loadAssignedCriteria(ctx context.Context, user *model.User) error {
	query := `SELECT criteria_id FROM user_criteria WHERE user_id = $1 ORDER BY criteria_id`
	rows, err := r.db.QueryContext(ctx, query, user.ID)
	if err != nil {
		return fmt.Errorf("pgUserRepository.loadAssignedCriteria: %w", err)
	}
	defer rows.Close()

	user.AssignedCriteria = []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("pgUserRepository.loadAssignedCriteria scan: %w", err)
		}
		user.AssignedCriteria = append(user.AssignedCriteria, id)
	}
	return rows.Err()
}
