package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"draftday/models"
	"draftday/services"
)

type MatchHandler struct {
	matches services.MatchService
}

func NewMatchHandler(matches services.MatchService) *MatchHandler {
	return &MatchHandler{matches: matches}
}

// ReportResultHandler is the participant report path with first-write-wins
// semantics. A duplicate report is a 200 with alreadyReported=true carrying
// the committed result, never a conflict error.
func (h *MatchHandler) ReportResultHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Result     *models.MatchResult `json:"result"`
		ReportedBy string              `json:"reportedBy"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Result == nil {
		errorResponse(w, r, http.StatusBadRequest, "result is required")
		return
	}

	outcome, err := h.matches.ReportResult(
		r.Context(),
		chi.URLParam(r, "eventID"),
		chi.URLParam(r, "matchID"),
		*input.Result,
		input.ReportedBy,
	)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"success":         true,
		"alreadyReported": outcome.AlreadyReported,
		"result":          outcome.Result,
		"reportedBy":      outcome.ReportedBy,
		"reportedAt":      outcome.ReportedAt,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) GetMatchHandler(w http.ResponseWriter, r *http.Request) {
	lookup, err := h.matches.GetMatch(r.Context(), chi.URLParam(r, "eventID"), chi.URLParam(r, "matchID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"match":       lookup.Match,
		"roundNumber": lookup.RoundNumber,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
