package handlers

import (
	"net/http"

	"github.com/courtside/tournament-engine/middleware"
	"github.com/courtside/tournament-engine/services"
)

type GroupHandler struct {
	groupService services.GroupStandingsService
}

func NewGroupHandler(groupService services.GroupStandingsService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

// SyncGroupsHandler handles PUT /tournaments/{tournamentUUID}/groups. The
// body is the full desired group-stage state; groups, memberships and
// group matches not present in it are retired.
func (h *GroupHandler) SyncGroupsHandler(w http.ResponseWriter, r *http.Request) {
	tournamentUUID, err := getUUIDFromURL(r, "tournamentUUID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.GroupSyncInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.groupService.SyncGroups(r.Context(), tournamentUUID, input, middleware.OperatorFromContext(r.Context()))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	env := jsonResponse{"groups": result.Groups, "matches": result.Matches}
	if err := writeJSON(w, http.StatusOK, env, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type teamGroupRequest struct {
	GroupUUID *string `json:"group_uuid"`
}

// UpdateTeamGroupHandler handles PUT /teams/{teamUUID}/group. A null
// group_uuid detaches the team from every group.
func (h *GroupHandler) UpdateTeamGroupHandler(w http.ResponseWriter, r *http.Request) {
	teamUUID, err := getUUIDFromURL(r, "teamUUID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input teamGroupRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.groupService.UpdateTeamGroup(r.Context(), teamUUID, input.GroupUUID, middleware.OperatorFromContext(r.Context())); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "team group updated"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
