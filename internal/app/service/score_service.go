package service

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"judgeboard/internal/common"
	"judgeboard/internal/domain/model"
	"judgeboard/internal/domain/repository"
	"judgeboard/internal/metrics"
	"judgeboard/internal/platform/cache"

	"github.com/google/uuid"
)

// ScoreService is the score ledger: one row per (judge, team, criterion),
// insert-or-update on submission. Single submissions are atomic per call;
// batch submissions are atomic across the whole list.
type ScoreService struct {
	scoreRepo    repository.ScoreRepository
	criteriaRepo repository.CriteriaRepository
	teamRepo     repository.TeamRepository
	scope        *ScopeResolver
	db           *sql.DB
	resultsCache *cache.ResultsCache
}

func NewScoreService(
	scoreRepo repository.ScoreRepository,
	criteriaRepo repository.CriteriaRepository,
	teamRepo repository.TeamRepository,
	scope *ScopeResolver,
	db *sql.DB,
	resultsCache *cache.ResultsCache,
) *ScoreService {
	return &ScoreService{
		scoreRepo:    scoreRepo,
		criteriaRepo: criteriaRepo,
		teamRepo:     teamRepo,
		scope:        scope,
		db:           db,
		resultsCache: resultsCache,
	}
}

type SubmitScoreRequest struct {
	TeamID     string  `json:"team_id" validate:"required"`
	CriteriaID string  `json:"criteria_id" validate:"required"`
	Score      float64 `json:"score" validate:"gte=0"`
	Notes      string  `json:"notes"`
}

type SubmitOutcome struct {
	Created bool         `json:"created"`
	Score   *model.Score `json:"score"`
}

// plannedUpsert is a fully validated batch item, ready to apply.
type plannedUpsert struct {
	existing *model.Score // nil means insert
	score    *model.Score
}

func (s *ScoreService) SubmitOne(ctx context.Context, judge *model.User, req SubmitScoreRequest) (*SubmitOutcome, error) {
	plan, err := s.planUpsert(ctx, judge, req)
	if err != nil {
		return nil, err
	}

	var outcome *SubmitOutcome
	if plan.existing != nil {
		outcome, err = s.applyUpdate(ctx, nil, plan)
	} else {
		outcome, err = s.applyInsert(ctx, plan)
	}
	if err != nil {
		return nil, err
	}

	s.resultsCache.Invalidate(ctx)
	return outcome, nil
}

// SubmitBatch applies the same validation and upsert logic as SubmitOne
// to every item, all-or-nothing: every item is validated before anything
// is written, and the writes share one transaction. A single bad item
// leaves the ledger untouched.
func (s *ScoreService) SubmitBatch(ctx context.Context, judge *model.User, items []SubmitScoreRequest) ([]SubmitOutcome, error) {
	if len(items) == 0 {
		return nil, common.Errorf("empty batch: %w", common.ErrBadRequest)
	}

	plans := make([]plannedUpsert, 0, len(items))
	for i, item := range items {
		plan, err := s.planUpsert(ctx, judge, item)
		if err != nil {
			metrics.BatchRejectionsTotal.Inc()
			return nil, common.Errorf("batch item %d: %w", i, err)
		}
		plans = append(plans, *plan)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	outcomes := make([]SubmitOutcome, 0, len(plans))
	for i, plan := range plans {
		if plan.existing != nil {
			if err := s.scoreRepo.UpdateValue(ctx, tx, plan.existing.ID, plan.score.Score, plan.score.Notes); err != nil {
				return nil, common.Errorf("batch item %d: failed to update score: %w", i, err)
			}
			updated := *plan.existing
			updated.Score = plan.score.Score
			updated.Notes = plan.score.Notes
			outcomes = append(outcomes, SubmitOutcome{Created: false, Score: &updated})
			continue
		}
		if err := s.scoreRepo.Create(ctx, tx, plan.score); err != nil {
			return nil, common.Errorf("batch item %d: failed to create score: %w", i, err)
		}
		outcomes = append(outcomes, SubmitOutcome{Created: true, Score: plan.score})
	}

	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit batch: %w", err)
	}

	for _, outcome := range outcomes {
		if outcome.Created {
			metrics.ScoreSubmissionsTotal.WithLabelValues("created").Inc()
		} else {
			metrics.ScoreSubmissionsTotal.WithLabelValues("updated").Inc()
		}
	}
	s.resultsCache.Invalidate(ctx)
	return outcomes, nil
}

func (s *ScoreService) ScoresByJudge(ctx context.Context, judgeID string) ([]model.Score, error) {
	return s.scoreRepo.ListByJudge(ctx, judgeID)
}

func (s *ScoreService) ScoresByJudgeAndTeam(ctx context.Context, judgeID, teamID string) ([]model.Score, error) {
	return s.scoreRepo.ListByJudgeAndTeam(ctx, judgeID, teamID)
}

// planUpsert runs the full per-item validation chain: payload shape,
// criterion resolution (inactive criteria are not scoring-eligible and
// read as absent), team resolution, authorization scope, and the lookup
// that decides insert vs update.
func (s *ScoreService) planUpsert(ctx context.Context, judge *model.User, req SubmitScoreRequest) (*plannedUpsert, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	criterion, err := s.criteriaRepo.FindByID(ctx, req.CriteriaID)
	if err != nil {
		return nil, common.Errorf("criterion %s: %w", req.CriteriaID, err)
	}
	if !criterion.IsActive {
		return nil, common.Errorf("criterion %s: %w", req.CriteriaID, common.ErrNotFound)
	}

	if _, err := s.teamRepo.FindByID(ctx, req.TeamID); err != nil {
		return nil, common.Errorf("team %s: %w", req.TeamID, err)
	}

	if !s.scope.CanScore(judge, criterion) {
		return nil, common.Errorf("judge is not assigned to criterion %q: %w", criterion.Name, common.ErrForbidden)
	}

	plan := &plannedUpsert{
		score: &model.Score{
			ID:         uuid.NewString(),
			Score:      req.Score,
			Notes:      req.Notes,
			JudgeID:    judge.ID,
			TeamID:     req.TeamID,
			CriteriaID: req.CriteriaID,
		},
	}

	existing, err := s.scoreRepo.FindByJudgeTeamCriteria(ctx, judge.ID, req.TeamID, req.CriteriaID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, common.Errorf("failed to look up existing score: %w", err)
	}
	plan.existing = existing
	return plan, nil
}

func (s *ScoreService) applyUpdate(ctx context.Context, tx *sql.Tx, plan *plannedUpsert) (*SubmitOutcome, error) {
	if err := s.scoreRepo.UpdateValue(ctx, tx, plan.existing.ID, plan.score.Score, plan.score.Notes); err != nil {
		return nil, common.Errorf("failed to update score: %w", err)
	}
	metrics.ScoreSubmissionsTotal.WithLabelValues("updated").Inc()

	updated := *plan.existing // created_at survives the overwrite
	updated.Score = plan.score.Score
	updated.Notes = plan.score.Notes
	return &SubmitOutcome{Created: false, Score: &updated}, nil
}

func (s *ScoreService) applyInsert(ctx context.Context, plan *plannedUpsert) (*SubmitOutcome, error) {
	err := s.scoreRepo.Create(ctx, nil, plan.score)
	if err == nil {
		metrics.ScoreSubmissionsTotal.WithLabelValues("created").Inc()
		return &SubmitOutcome{Created: true, Score: plan.score}, nil
	}
	if !errors.Is(err, common.ErrConflict) {
		return nil, common.Errorf("failed to create score: %w", err)
	}

	// Lost an insert race against a concurrent submission for the same
	// (judge, team, criteria) triple. Retry as an update.
	log.Printf("WARN: concurrent score insert for judge=%s team=%s criteria=%s, retrying as update",
		plan.score.JudgeID, plan.score.TeamID, plan.score.CriteriaID)
	existing, findErr := s.scoreRepo.FindByJudgeTeamCriteria(ctx, plan.score.JudgeID, plan.score.TeamID, plan.score.CriteriaID)
	if findErr != nil {
		return nil, common.Errorf("score conflict and retry lookup failed: %w", common.ErrConflict)
	}
	plan.existing = existing
	return s.applyUpdate(ctx, nil, plan)
}
