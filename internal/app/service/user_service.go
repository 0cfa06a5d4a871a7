package service

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"judgeboard/internal/common"
	"judgeboard/internal/common/security"
	"judgeboard/internal/domain/model"
	"judgeboard/internal/domain/repository"
	"judgeboard/internal/platform/cache"

	"github.com/google/uuid"
)

type UserService struct {
	userRepo     repository.UserRepository
	scoreRepo    repository.ScoreRepository
	db           *sql.DB
	resultsCache *cache.ResultsCache
}

func NewUserService(userRepo repository.UserRepository, scoreRepo repository.ScoreRepository, db *sql.DB, resultsCache *cache.ResultsCache) *UserService {
	return &UserService{userRepo: userRepo, scoreRepo: scoreRepo, db: db, resultsCache: resultsCache}
}

type UpdateUserRequest struct {
	IsAdmin          *bool     `json:"is_admin,omitempty"`
	AssignedCriteria *[]string `json:"assigned_criteria,omitempty"`
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.userRepo.List(ctx)
}

func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

func (s *UserService) Update(ctx context.Context, id string, req UpdateUserRequest) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	isAdmin := user.IsAdmin
	if req.IsAdmin != nil {
		isAdmin = *req.IsAdmin
	}
	if !isAdmin && req.AssignedCriteria != nil && len(*req.AssignedCriteria) == 0 {
		return nil, common.Errorf("a judge needs at least one assigned criterion: %w", common.ErrValidation)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if req.IsAdmin != nil && *req.IsAdmin != user.IsAdmin {
		if err := s.userRepo.SetAdmin(ctx, tx, id, *req.IsAdmin); err != nil {
			return nil, common.Errorf("failed to update admin flag: %w", err)
		}
	}
	if req.AssignedCriteria != nil {
		if err := s.userRepo.SetAssignedCriteria(ctx, tx, id, *req.AssignedCriteria); err != nil {
			return nil, common.Errorf("failed to update criteria assignments: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}

	return s.userRepo.FindByID(ctx, id)
}

// Delete removes a user and, first, every score that judge submitted.
// The two deletes are one logical transaction.
func (s *UserService) Delete(ctx context.Context, currentUserID, id string) error {
	if currentUserID == id {
		return common.Errorf("cannot delete your own account: %w", common.ErrBadRequest)
	}
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.scoreRepo.DeleteByJudge(ctx, tx, id); err != nil {
		return common.Errorf("failed to delete judge scores: %w", err)
	}
	if err := s.userRepo.Delete(ctx, tx, id); err != nil {
		return common.Errorf("failed to delete user: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return common.Errorf("failed to commit transaction: %w", err)
	}

	s.resultsCache.Invalidate(ctx)
	return nil
}

// EnsureAdmin is one-time process initialization: it guarantees a
// default admin account exists so a fresh deployment can be logged into.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		log.Println("Admin bootstrap skipped: no credentials configured")
		return nil
	}

	_, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return common.Errorf("failed to check for admin account: %w", err)
	}

	hashedPassword, err := security.HashPassword(password)
	if err != nil {
		return common.Errorf("failed to hash admin password: %w", err)
	}
	admin := &model.User{
		ID:             uuid.NewString(),
		Username:       username,
		HashedPassword: hashedPassword,
		IsAdmin:        true,
	}
	if err := s.userRepo.Create(ctx, nil, admin); err != nil {
		return common.Errorf("failed to create admin account: %w", err)
	}
	log.Printf("Default admin account %q created", username)
	return nil
}
