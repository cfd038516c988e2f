package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/courtside/pickleball-system/services"
)

type ParticipantHandler struct {
	participantService services.ParticipantService
	importService      services.ImportService
}

func NewParticipantHandler(ps services.ParticipantService, is services.ImportService) *ParticipantHandler {
	return &ParticipantHandler{
		participantService: ps,
		importService:      is,
	}
}

// CreateHandler handles POST /tournaments/{tournamentID}/participants.
func (h *ParticipantHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParamInt(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CreateParticipantInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participant, err := h.participantService.Create(r.Context(), tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"participant": participant}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler handles GET /tournaments/{tournamentID}/participants.
func (h *ParticipantHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParamInt(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participants, err := h.participantService.ListByTournament(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"participants": participants}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteHandler handles DELETE /participants/{participantID}.
func (h *ParticipantHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "participantID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.participantService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ImportCSVHandler handles POST /tournaments/{tournamentID}/participants/import.
// Accepts either a multipart form with a "file" field or a raw text/csv body.
func (h *ParticipantHandler) ImportCSVHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParamInt(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var body io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			badRequestResponse(w, r, errors.New("multipart upload must contain a \"file\" field"))
			return
		}
		defer file.Close()
		body = file
	}

	result, err := h.importService.ImportParticipantsCSV(r.Context(), tournamentID, body)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	status := http.StatusCreated
	if len(result.Errors) > 0 {
		// Partial success: some rows were rejected.
		status = http.StatusMultiStatus
	}

	if err := writeJSON(w, status, jsonResponse{"import": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
