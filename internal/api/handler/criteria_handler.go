package handler

import (
	"encoding/json"
	"net/http"

	"judgeboard/internal/api/middleware"
	"judgeboard/internal/app/service"
	"judgeboard/internal/common"

	"github.com/go-chi/chi/v5"
)

type CriteriaHandler struct {
	criteriaService *service.CriteriaService
	userService     *service.UserService
	scope           *service.ScopeResolver
}

func NewCriteriaHandler(criteriaService *service.CriteriaService, userService *service.UserService, scope *service.ScopeResolver) *CriteriaHandler {
	return &CriteriaHandler{criteriaService: criteriaService, userService: userService, scope: scope}
}

func (h *CriteriaHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)

	r.Get("/", h.listCriteria) // scoped: judges see only their assigned subset

	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.AdminOnly)
		adminRouter.Get("/summary", h.weightSummary)
		adminRouter.Post("/", h.createCriterion)
		adminRouter.Put("/{criteriaID}", h.updateCriterion)
		adminRouter.Delete("/{criteriaID}", h.deleteCriterion)
	})
}

func (h *CriteriaHandler) listCriteria(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	criteria, err := h.scope.VisibleCriteria(r.Context(), user)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, criteria)
}

func (h *CriteriaHandler) weightSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.criteriaService.WeightSummary(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, summary)
}

func (h *CriteriaHandler) createCriterion(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCriteriaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	criterion, err := h.criteriaService.Create(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, criterion)
}

func (h *CriteriaHandler) updateCriterion(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateCriteriaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	criterion, err := h.criteriaService.Update(r.Context(), chi.URLParam(r, "criteriaID"), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, criterion)
}

func (h *CriteriaHandler) deleteCriterion(w http.ResponseWriter, r *http.Request) {
	if err := h.criteriaService.SoftDelete(r.Context(), chi.URLParam(r, "criteriaID")); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"msg": "Criteria deleted successfully"})
}
