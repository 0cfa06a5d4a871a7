package service

import (
	"context"
	"database/sql"

	"judgeboard/internal/common"
	"judgeboard/internal/domain/model"
	"judgeboard/internal/domain/repository"
	"judgeboard/internal/platform/cache"

	"github.com/google/uuid"
)

// CriteriaService is the registry of judging criteria. It owns the one
// non-negotiable invariant of the registry: the weights of active
// criteria never sum past 100%. The check and the write run inside a
// single transaction so concurrent creates cannot jointly slip past it.
type CriteriaService struct {
	criteriaRepo repository.CriteriaRepository
	db           *sql.DB
	resultsCache *cache.ResultsCache
}

func NewCriteriaService(criteriaRepo repository.CriteriaRepository, db *sql.DB, resultsCache *cache.ResultsCache) *CriteriaService {
	return &CriteriaService{criteriaRepo: criteriaRepo, db: db, resultsCache: resultsCache}
}

type CreateCriteriaRequest struct {
	Name             string   `json:"name" validate:"required"`
	Description      string   `json:"description"`
	MaxScore         *float64 `json:"max_score,omitempty" validate:"omitempty,gt=0"`
	WeightPercentage *float64 `json:"weight_percentage,omitempty" validate:"omitempty,gt=0"`
}

type UpdateCriteriaRequest struct {
	Name             *string  `json:"name,omitempty"`
	Description      *string  `json:"description,omitempty"`
	MaxScore         *float64 `json:"max_score,omitempty" validate:"omitempty,gt=0"`
	WeightPercentage *float64 `json:"weight_percentage,omitempty" validate:"omitempty,gt=0"`
}

func (s *CriteriaService) Create(ctx context.Context, req CreateCriteriaRequest) (*model.Criterion, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	criterion := &model.Criterion{
		ID:               uuid.NewString(),
		Name:             req.Name,
		Description:      req.Description,
		MaxScore:         model.DefaultMaxScore,
		WeightPercentage: model.DefaultWeightPercentage,
		IsActive:         true,
	}
	if req.MaxScore != nil {
		criterion.MaxScore = *req.MaxScore
	}
	if req.WeightPercentage != nil {
		criterion.WeightPercentage = *req.WeightPercentage
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	total, err := s.criteriaRepo.SumActiveWeights(ctx, tx, "")
	if err != nil {
		return nil, common.Errorf("failed to total active weights: %w", err)
	}
	if total+criterion.WeightPercentage > model.MaxTotalWeight {
		return nil, common.Errorf("total weight would be %.1f%%: %w",
			total+criterion.WeightPercentage, common.ErrWeightExceeded)
	}

	if err := s.criteriaRepo.Create(ctx, tx, criterion); err != nil {
		return nil, common.Errorf("failed to create criterion: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}

	s.resultsCache.Invalidate(ctx)
	return criterion, nil
}

func (s *CriteriaService) Update(ctx context.Context, id string, req UpdateCriteriaRequest) (*model.Criterion, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	criterion, err := s.criteriaRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		criterion.Name = *req.Name
	}
	if req.Description != nil {
		criterion.Description = *req.Description
	}
	if req.MaxScore != nil {
		criterion.MaxScore = *req.MaxScore
	}
	if req.WeightPercentage != nil {
		criterion.WeightPercentage = *req.WeightPercentage
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if criterion.IsActive {
		// The record being updated is excluded from its own total.
		total, err := s.criteriaRepo.SumActiveWeights(ctx, tx, criterion.ID)
		if err != nil {
			return nil, common.Errorf("failed to total active weights: %w", err)
		}
		if total+criterion.WeightPercentage > model.MaxTotalWeight {
			return nil, common.Errorf("total weight would be %.1f%%: %w",
				total+criterion.WeightPercentage, common.ErrWeightExceeded)
		}
	}

	if err := s.criteriaRepo.Update(ctx, tx, criterion); err != nil {
		return nil, common.Errorf("failed to update criterion: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}

	s.resultsCache.Invalidate(ctx)
	return criterion, nil
}

// SoftDelete deactivates a criterion. Historical scores referencing it
// stay in place; it just disappears from every active view. Deleting an
// already-inactive criterion is a no-op.
func (s *CriteriaService) SoftDelete(ctx context.Context, id string) error {
	criterion, err := s.criteriaRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !criterion.IsActive {
		return nil
	}

	criterion.IsActive = false
	if err := s.criteriaRepo.Update(ctx, nil, criterion); err != nil {
		return common.Errorf("failed to deactivate criterion: %w", err)
	}

	s.resultsCache.Invalidate(ctx)
	return nil
}

func (s *CriteriaService) ListActive(ctx context.Context) ([]model.Criterion, error) {
	return s.criteriaRepo.ListActive(ctx)
}

func (s *CriteriaService) WeightSummary(ctx context.Context) (*model.WeightSummary, error) {
	total, err := s.criteriaRepo.SumActiveWeights(ctx, nil, "")
	if err != nil {
		return nil, common.Errorf("failed to total active weights: %w", err)
	}
	return &model.WeightSummary{
		TotalWeight: total,
		Remaining:   model.MaxTotalWeight - total,
		IsValid:     total <= model.MaxTotalWeight,
	}, nil
}
