package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zaiko-app/zaiko/internal/core/domain"
	"github.com/zaiko-app/zaiko/internal/core/service"
)

type TeamHandler struct {
	tenants *service.TenantService
}

func NewTeamHandler(tenants *service.TenantService) *TeamHandler {
	return &TeamHandler{tenants: tenants}
}

type createTeamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	scope := scopeFrom(r.Context())
	var req createTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("body", "invalid json"))
		return
	}
	team, err := h.tenants.CreateTeam(r.Context(), scope.Principal, req.Name, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, team)
}

func (h *TeamHandler) My(w http.ResponseWriter, r *http.Request) {
	scope := scopeFrom(r.Context())
	teams, err := h.tenants.MyTeams(r.Context(), scope.Principal)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]domain.Team{"teams": teams})
}

func (h *TeamHandler) Join(w http.ResponseWriter, r *http.Request) {
	scope := scopeFrom(r.Context())
	teamID, err := strconv.ParseInt(chi.URLParam(r, "team_id"), 10, 64)
	if err != nil {
		writeError(w, domain.ErrInvalidTenant)
		return
	}
	team, err := h.tenants.Join(r.Context(), scope.Principal, teamID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}
