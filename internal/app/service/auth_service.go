package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"judgeboard/internal/common"
	"judgeboard/internal/common/security"
	"judgeboard/internal/domain/model"
	"judgeboard/internal/domain/repository"

	"github.com/google/uuid"
)

type AuthService struct {
	userRepo repository.UserRepository
	db       *sql.DB
}

func NewAuthService(userRepo repository.UserRepository, db *sql.DB) *AuthService {
	return &AuthService{userRepo: userRepo, db: db}
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	IsAdmin  bool   `json:"is_admin"`

	// For judges: criteria this user may score. When supplied, a judge
	// must get at least one.
	AssignedCriteria *[]string `json:"assigned_criteria,omitempty"`
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized // generic message for security
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.ErrUnauthorized
	}

	token, err := security.GenerateToken(user.ID, user.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = ""
	return &AuthResponse{User: user, Token: token}, nil
}

// Register creates a judge or admin account. Admin-only at the route
// level: there is no open signup on a judging panel.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if !req.IsAdmin && req.AssignedCriteria != nil && len(*req.AssignedCriteria) == 0 {
		return nil, common.Errorf("a judge needs at least one assigned criterion: %w", common.ErrValidation)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		HashedPassword: hashedPassword,
		IsAdmin:        req.IsAdmin,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.userRepo.Create(ctx, tx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if !req.IsAdmin && req.AssignedCriteria != nil {
		if err := s.userRepo.SetAssignedCriteria(ctx, tx, user.ID, *req.AssignedCriteria); err != nil {
			return nil, fmt.Errorf("failed to assign criteria: %w", err)
		}
		user.AssignedCriteria = *req.AssignedCriteria
	}
	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}

	user.HashedPassword = ""
	return user, nil
}
