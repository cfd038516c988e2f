package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/courtside/pickleball-system/models"
	"github.com/courtside/pickleball-system/repositories"
	"github.com/courtside/pickleball-system/services"
)

type MatchHandler struct {
	progressionService services.ProgressionService
	matchRepo          repositories.MatchRepository
}

func NewMatchHandler(ps services.ProgressionService, matchRepo repositories.MatchRepository) *MatchHandler {
	return &MatchHandler{
		progressionService: ps,
		matchRepo:          matchRepo,
	}
}

type scoreInput struct {
	ScoreA int `json:"score_a"`
	ScoreB int `json:"score_b"`
}

// ListHandler handles GET /tournaments/{tournamentID}/matches with optional
// ?round= and ?status= filters.
func (h *MatchHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParamInt(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var roundFilter *string
	var statusFilter *models.MatchStatus
	query := r.URL.Query()
	if round := query.Get("round"); round != "" {
		roundFilter = &round
	}
	if statusStr := query.Get("status"); statusStr != "" {
		status := models.MatchStatus(statusStr)
		switch status {
		case models.MatchStatusUpcoming, models.MatchStatusLive, models.MatchStatusCompleted, models.MatchStatusCancelled:
			statusFilter = &status
		default:
			badRequestResponse(w, r, errors.New("invalid status query parameter: "+strconv.Quote(statusStr)))
			return
		}
	}

	matches, err := h.matchRepo.ListByTournament(r.Context(), tournamentID, roundFilter, statusFilter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler handles GET /matches/{matchID}.
func (h *MatchHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchRepo.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateScoreHandler handles PUT /matches/{matchID}/score.
func (h *MatchHandler) UpdateScoreHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input scoreInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.progressionService.UpdateScore(r.Context(), id, input.ScoreA, input.ScoreB)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CompleteHandler handles POST /matches/{matchID}/complete.
func (h *MatchHandler) CompleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input scoreInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.progressionService.CompleteMatch(r.Context(), id, input.ScoreA, input.ScoreB)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CancelHandler handles POST /matches/{matchID}/cancel.
func (h *MatchHandler) CancelHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.progressionService.CancelMatch(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ReactivateHandler handles POST /matches/{matchID}/reactivate.
func (h *MatchHandler) ReactivateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.progressionService.ReactivateMatch(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteHandler handles DELETE /matches/{matchID}.
func (h *MatchHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.progressionService.DeleteMatch(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
