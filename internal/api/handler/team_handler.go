package handler

import (
	"encoding/json"
	"net/http"

	"judgeboard/internal/api/middleware"
	"judgeboard/internal/app/service"
	"judgeboard/internal/common"

	"github.com/go-chi/chi/v5"
)

type TeamHandler struct {
	teamService     *service.TeamService
	feedbackService *service.FeedbackService
}

func NewTeamHandler(teamService *service.TeamService, feedbackService *service.FeedbackService) *TeamHandler {
	return &TeamHandler{teamService: teamService, feedbackService: feedbackService}
}

func (h *TeamHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)

	r.Get("/", h.listTeams)
	r.Get("/{teamSlug}", h.getTeam)

	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.AdminOnly)
		adminRouter.Post("/", h.createTeam)
		adminRouter.Delete("/{teamID}", h.deleteTeam)
		adminRouter.Get("/{teamID}/feedback", h.teamFeedback)
	})
}

func (h *TeamHandler) listTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teamService.List(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, teams)
}

func (h *TeamHandler) getTeam(w http.ResponseWriter, r *http.Request) {
	team, err := h.teamService.GetBySlug(r.Context(), chi.URLParam(r, "teamSlug"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, team)
}

func (h *TeamHandler) createTeam(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	team, err := h.teamService.Create(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, team)
}

func (h *TeamHandler) deleteTeam(w http.ResponseWriter, r *http.Request) {
	if err := h.teamService.Delete(r.Context(), chi.URLParam(r, "teamID")); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"msg": "Team deleted successfully"})
}

func (h *TeamHandler) teamFeedback(w http.ResponseWriter, r *http.Request) {
	feedback, err := h.feedbackService.TeamFeedback(r.Context(), chi.URLParam(r, "teamID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, feedback)
}
