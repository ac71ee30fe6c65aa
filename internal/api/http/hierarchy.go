package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"fieldforce-backend/internal/domain"
	"fieldforce-backend/internal/service"
)

type HierarchyHandler struct {
	hierarchySvc service.HierarchyService
}

func NewHierarchyHandler(hierarchySvc service.HierarchyService) *HierarchyHandler {
	return &HierarchyHandler{hierarchySvc: hierarchySvc}
}

func pathID(r *http.Request, name string) (int32, bool) {
	raw, ok := mux.Vars(r)[name]
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id < 1 {
		return 0, false
	}
	return int32(id), true
}

func (h *HierarchyHandler) CreateZone(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		Code string `json:"code"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" || req.Code == "" {
		respondBadRequest(w, "name and code are required")
		return
	}

	zone, err := h.hierarchySvc.CreateZone(r.Context(), req.Name, req.Code)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, zone)
}

func (h *HierarchyHandler) ListZones(w http.ResponseWriter, r *http.Request) {
	zones, err := h.hierarchySvc.ListZones(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, zones)
}

func (h *HierarchyHandler) GetZone(w http.ResponseWriter, r *http.Request) {
	zoneID, ok := pathID(r, "id")
	if !ok {
		respondBadRequest(w, "invalid zone id")
		return
	}
	zone, err := h.hierarchySvc.GetZone(r.Context(), zoneID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, zone)
}

func (h *HierarchyHandler) ListZoneTeams(w http.ResponseWriter, r *http.Request) {
	zoneID, ok := pathID(r, "id")
	if !ok {
		respondBadRequest(w, "invalid zone id")
		return
	}
	teams, err := h.hierarchySvc.ListZoneTeams(r.Context(), zoneID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, teams)
}

func (h *HierarchyHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ZoneID int32  `json:"zone_id"`
		Name   string `json:"name"`
		State  string `json:"state"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ZoneID < 1 || req.Name == "" {
		respondBadRequest(w, "zone_id and name are required")
		return
	}

	team, err := h.hierarchySvc.CreateTeam(r.Context(), req.ZoneID, req.Name, req.State)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, team)
}

func (h *HierarchyHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(r, "id")
	if !ok {
		respondBadRequest(w, "invalid team id")
		return
	}
	team, err := h.hierarchySvc.GetTeam(r.Context(), teamID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, team)
}

func (h *HierarchyHandler) ListTeamMembers(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(r, "id")
	if !ok {
		respondBadRequest(w, "invalid team id")
		return
	}
	members, err := h.hierarchySvc.ListTeamMembers(r.Context(), teamID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, members)
}

func (h *HierarchyHandler) TeamSummary(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(r, "id")
	if !ok {
		respondBadRequest(w, "invalid team id")
		return
	}
	summary, err := h.hierarchySvc.TeamSummary(r.Context(), teamID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (h *HierarchyHandler) SetTeamLead(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(r, "id")
	if !ok {
		respondBadRequest(w, "invalid team id")
		return
	}
	var req struct {
		Email string `json:"email"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" {
		respondBadRequest(w, "email is required")
		return
	}

	team, err := h.hierarchySvc.SetTeamLead(r.Context(), req.Email, teamID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, team)
}

func (h *HierarchyHandler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string      `json:"name"`
		Email string      `json:"email"`
		Phone string      `json:"phone"`
		Role  domain.Role `json:"role"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" || req.Email == "" {
		respondBadRequest(w, "name and email are required")
		return
	}

	member, err := h.hierarchySvc.CreateMember(r.Context(), req.Name, req.Email, req.Phone, req.Role)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, member)
}

func (h *HierarchyHandler) AssignMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string      `json:"email"`
		Role        domain.Role `json:"role"`
		TeamID      int32       `json:"team_id"`
		UplineEmail string      `json:"upline_email"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.TeamID < 1 {
		respondBadRequest(w, "email and team_id are required")
		return
	}

	member, err := h.hierarchySvc.AssignMember(r.Context(), req.Email, req.Role, req.TeamID, req.UplineEmail)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, member)
}

func (h *HierarchyHandler) ReassignMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email     string `json:"email"`
		NewTeamID int32  `json:"new_team_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.NewTeamID < 1 {
		respondBadRequest(w, "email and new_team_id are required")
		return
	}

	member, err := h.hierarchySvc.ReassignMember(r.Context(), req.Email, req.NewTeamID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, member)
}

func (h *HierarchyHandler) SetMemberActive(w http.ResponseWriter, r *http.Request) {
	memberID, ok := pathID(r, "id")
	if !ok {
		respondBadRequest(w, "invalid member id")
		return
	}
	var req struct {
		Active bool `json:"active"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	member, err := h.hierarchySvc.SetMemberActive(r.Context(), memberID, req.Active)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, member)
}
