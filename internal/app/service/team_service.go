package service

import (
	"context"
	"database/sql"

	"judgeboard/internal/common"
	"judgeboard/internal/domain/model"
	"judgeboard/internal/domain/repository"
	"judgeboard/internal/platform/cache"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type TeamService struct {
	teamRepo     repository.TeamRepository
	scoreRepo    repository.ScoreRepository
	db           *sql.DB
	resultsCache *cache.ResultsCache
}

func NewTeamService(teamRepo repository.TeamRepository, scoreRepo repository.ScoreRepository, db *sql.DB, resultsCache *cache.ResultsCache) *TeamService {
	return &TeamService{teamRepo: teamRepo, scoreRepo: scoreRepo, db: db, resultsCache: resultsCache}
}

type CreateTeamRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func (s *TeamService) Create(ctx context.Context, req CreateTeamRequest) (*model.Team, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	team := &model.Team{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Slug:        slug.Make(req.Name),
		Description: req.Description,
	}
	if err := s.teamRepo.Create(ctx, nil, team); err != nil {
		return nil, err
	}

	s.resultsCache.Invalidate(ctx)
	// Re-read for the store-assigned creation timestamp.
	return s.teamRepo.FindByID(ctx, team.ID)
}

func (s *TeamService) List(ctx context.Context) ([]model.Team, error) {
	return s.teamRepo.List(ctx)
}

func (s *TeamService) GetBySlug(ctx context.Context, teamSlug string) (*model.Team, error) {
	return s.teamRepo.FindBySlug(ctx, teamSlug)
}

// Delete removes a team and its scores as one logical transaction:
// scores first, then the team. Score rows cannot outlive their team.
func (s *TeamService) Delete(ctx context.Context, id string) error {
	if _, err := s.teamRepo.FindByID(ctx, id); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.scoreRepo.DeleteByTeam(ctx, tx, id); err != nil {
		return common.Errorf("failed to delete team scores: %w", err)
	}
	if err := s.teamRepo.Delete(ctx, tx, id); err != nil {
		return common.Errorf("failed to delete team: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return common.Errorf("failed to commit transaction: %w", err)
	}

	s.resultsCache.Invalidate(ctx)
	return nil
}
