package service

import (
	"context"

	"judgeboard/internal/domain/model"
	"judgeboard/internal/domain/repository"
)

// ScopeResolver answers which criteria a given user may see and score.
// Admins are unrestricted; judges see the intersection of their assigned
// criteria and the active set.
type ScopeResolver struct {
	criteriaRepo repository.CriteriaRepository
}

func NewScopeResolver(criteriaRepo repository.CriteriaRepository) *ScopeResolver {
	return &ScopeResolver{criteriaRepo: criteriaRepo}
}

func (s *ScopeResolver) VisibleCriteria(ctx context.Context, user *model.User) ([]model.Criterion, error) {
	active, err := s.criteriaRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin {
		return active, nil
	}

	visible := make([]model.Criterion, 0, len(active))
	for _, criterion := range active {
		if user.CanScoreCriterion(criterion.ID) {
			visible = append(visible, criterion)
		}
	}
	return visible, nil
}

func (s *ScopeResolver) CanScore(user *model.User, criterion *model.Criterion) bool {
	return user.CanScoreCriterion(criterion.ID)
}
