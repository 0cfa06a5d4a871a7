package service

import (
	"context"
	"log"

	"judgeboard/internal/common"
	"judgeboard/internal/domain/model"
	"judgeboard/internal/domain/repository"
)

const unknownJudgeName = "Unknown"

// FeedbackService compiles the per-team review view: every active
// criterion somebody scored, with each judge's score and notes in
// submission order.
type FeedbackService struct {
	teamRepo     repository.TeamRepository
	criteriaRepo repository.CriteriaRepository
	scoreRepo    repository.ScoreRepository
	userRepo     repository.UserRepository
}

func NewFeedbackService(
	teamRepo repository.TeamRepository,
	criteriaRepo repository.CriteriaRepository,
	scoreRepo repository.ScoreRepository,
	userRepo repository.UserRepository,
) *FeedbackService {
	return &FeedbackService{
		teamRepo:     teamRepo,
		criteriaRepo: criteriaRepo,
		scoreRepo:    scoreRepo,
		userRepo:     userRepo,
	}
}

func (s *FeedbackService) TeamFeedback(ctx context.Context, teamID string) (*model.TeamFeedback, error) {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return nil, common.Errorf("team %s: %w", teamID, err)
	}

	criteria, err := s.criteriaRepo.ListActive(ctx)
	if err != nil {
		return nil, common.Errorf("failed to list active criteria: %w", err)
	}

	feedback := &model.TeamFeedback{
		TeamID:           team.ID,
		TeamName:         team.Name,
		TeamDescription:  team.Description,
		CriteriaFeedback: []model.CriterionFeedback{},
	}

	for _, criterion := range criteria {
		scores, err := s.scoreRepo.ListByTeamAndCriteria(ctx, team.ID, criterion.ID)
		if err != nil {
			return nil, common.Errorf("failed to list scores for criterion %s: %w", criterion.ID, err)
		}
		if len(scores) == 0 {
			// No placeholder entries for unscored criteria.
			continue
		}

		var sum float64
		judgeFeedback := make([]model.JudgeFeedback, 0, len(scores))
		for _, score := range scores {
			sum += score.Score

			judgeName := unknownJudgeName
			judge, err := s.userRepo.FindByID(ctx, score.JudgeID)
			if err != nil {
				// Deleted judge records degrade to a placeholder
				// instead of failing the whole response.
				log.Printf("WARN: judge %s not resolvable for feedback: %v", score.JudgeID, err)
			} else {
				judgeName = judge.Username
			}

			judgeFeedback = append(judgeFeedback, model.JudgeFeedback{
				JudgeName: judgeName,
				Score:     score.Score,
				Notes:     score.Notes,
				CreatedAt: score.CreatedAt,
			})
		}

		feedback.CriteriaFeedback = append(feedback.CriteriaFeedback, model.CriterionFeedback{
			CriteriaName:        criterion.Name,
			CriteriaDescription: criterion.Description,
			MaxScore:            criterion.MaxScore,
			AverageScore:        sum / float64(len(scores)),
			JudgeFeedback:       judgeFeedback,
		})
	}

	return feedback, nil
}
