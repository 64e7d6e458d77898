package handlers

import (
	"net/http"

	"github.com/courtside/tournament-engine/middleware"
	"github.com/courtside/tournament-engine/models"
	"github.com/courtside/tournament-engine/services"
)

type MatchHandler struct {
	scoreService services.MatchScoreService
}

func NewMatchHandler(scoreService services.MatchScoreService) *MatchHandler {
	return &MatchHandler{scoreService: scoreService}
}

// UpdateScoreHandler handles PUT /matches/{matchUUID}/score. Besides plain
// score updates the body may carry a RESET signal or an incident marker in
// its status field.
func (h *MatchHandler) UpdateScoreHandler(w http.ResponseWriter, r *http.Request) {
	matchUUID, err := getUUIDFromURL(r, "matchUUID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.ScoreUpdateInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.Actor = middleware.OperatorFromContext(r.Context())

	result, err := h.scoreService.ApplyScore(r.Context(), matchUUID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if result.Reload {
		// The match ended under the caller's feet. 206 tells the client to
		// refetch, the body carries the authoritative state.
		env := jsonResponse{"message": "reload", "match": result.Match}
		if err := writeJSON(w, http.StatusPartialContent, env, nil); err != nil {
			serverErrorResponse(w, r, err)
		}
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": result.Match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// NextRoundHandler handles PUT /matches/{matchUUID}/next-round: assigns
// titles for semifinals/finals and advances the winner into its bracket slot.
func (h *MatchHandler) NextRoundHandler(w http.ResponseWriter, r *http.Request) {
	matchUUID, err := getUUIDFromURL(r, "matchUUID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.scoreService.AdvanceRound(r.Context(), matchUUID, middleware.OperatorFromContext(r.Context()))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type statusUpdateRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes,omitempty"`
}

// UpdateStatusHandler handles PUT /matches/{matchUUID}/status for the
// non-terminal statuses. ENDED is rejected, scores are the only way to end
// a match.
func (h *MatchHandler) UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	matchUUID, err := getUUIDFromURL(r, "matchUUID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input statusUpdateRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.scoreService.UpdateStatus(r.Context(), matchUUID, models.MatchStatus(input.Status), input.Notes, middleware.OperatorFromContext(r.Context()))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHistoryHandler handles GET /matches/{matchUUID}/history.
func (h *MatchHandler) ListHistoryHandler(w http.ResponseWriter, r *http.Request) {
	matchUUID, err := getUUIDFromURL(r, "matchUUID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entries, err := h.scoreService.ListHistory(r.Context(), matchUUID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"history": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
