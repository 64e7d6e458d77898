package handlers

import (
	"net/http"

	"github.com/courtside/tournament-engine/services"
)

type TournamentHandler struct {
	overviewService services.TournamentOverviewService
}

func NewTournamentHandler(overviewService services.TournamentOverviewService) *TournamentHandler {
	return &TournamentHandler{overviewService: overviewService}
}

// OverviewHandler handles GET /tournaments/{tournamentUUID}/overview:
// matches, groups with member teams, and titles with holders in one call.
func (h *TournamentHandler) OverviewHandler(w http.ResponseWriter, r *http.Request) {
	tournamentUUID, err := getUUIDFromURL(r, "tournamentUUID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	overview, err := h.overviewService.GetOverview(r.Context(), tournamentUUID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, overview, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
