package handler

import (
	"encoding/json"
	"net/http"

	"judgeboard/internal/api/middleware"
	"judgeboard/internal/app/service"
	"judgeboard/internal/common"
	"judgeboard/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type ScoreHandler struct {
	scoreService *service.ScoreService
	userService  *service.UserService
}

func NewScoreHandler(scoreService *service.ScoreService, userService *service.UserService) *ScoreHandler {
	return &ScoreHandler{scoreService: scoreService, userService: userService}
}

func (h *ScoreHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)

	r.Post("/", h.submitScore)
	r.Post("/batch", h.submitBatch)
	r.Get("/mine", h.myScores)
	r.Get("/team/{teamID}", h.myTeamScores)
}

// currentUser loads the caller's full record; scope checks need the
// criteria assignments, which live in the store, not in the token.
func (h *ScoreHandler) currentUser(w http.ResponseWriter, r *http.Request) *model.User {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return nil
	}
	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return nil
	}
	return user
}

func (h *ScoreHandler) submitScore(w http.ResponseWriter, r *http.Request) {
	judge := h.currentUser(w, r)
	if judge == nil {
		return
	}

	var req service.SubmitScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	outcome, err := h.scoreService.SubmitOne(r.Context(), judge, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	status := http.StatusOK
	if outcome.Created {
		status = http.StatusCreated
	}
	common.RespondWithJSON(w, status, outcome)
}

func (h *ScoreHandler) submitBatch(w http.ResponseWriter, r *http.Request) {
	judge := h.currentUser(w, r)
	if judge == nil {
		return
	}

	var items []service.SubmitScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	outcomes, err := h.scoreService.SubmitBatch(r.Context(), judge, items)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, outcomes)
}

func (h *ScoreHandler) myScores(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	scores, err := h.scoreService.ScoresByJudge(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, scores)
}

func (h *ScoreHandler) myTeamScores(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	scores, err := h.scoreService.ScoresByJudgeAndTeam(r.Context(), userID, chi.URLParam(r, "teamID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, scores)
}
