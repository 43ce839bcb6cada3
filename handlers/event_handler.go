package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"draftday/models"
	"draftday/services"
)

type EventHandler struct {
	events services.EventService
}

func NewEventHandler(events services.EventService) *EventHandler {
	return &EventHandler{events: events}
}

func (h *EventHandler) CreateEventHandler(w http.ResponseWriter, r *http.Request) {
	var event models.EventSession
	if err := readJSON(w, r, &event); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	created, err := h.events.CreateEvent(r.Context(), &event)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, created, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) GetEventHandler(w http.ResponseWriter, r *http.Request) {
	event, err := h.events.GetEvent(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, event, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) ReplaceEventHandler(w http.ResponseWriter, r *http.Request) {
	var event models.EventSession
	if err := readJSON(w, r, &event); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	updated, err := h.events.ReplaceEvent(r.Context(), chi.URLParam(r, "eventID"), &event)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, updated, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) GetEventByCodeHandler(w http.ResponseWriter, r *http.Request) {
	event, err := h.events.GetEventByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, event, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) ChangeEventCodeHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		EventCode string `json:"eventCode"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.events.ChangeEventCode(r.Context(), chi.URLParam(r, "eventID"), input.EventCode)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, event, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) AddPlayerHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name string `json:"name"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.events.AddPlayer(r.Context(), chi.URLParam(r, "eventID"), input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, event, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) RemovePlayerHandler(w http.ResponseWriter, r *http.Request) {
	event, err := h.events.RemovePlayer(r.Context(), chi.URLParam(r, "eventID"), chi.URLParam(r, "playerID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, event, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) RenamePlayerHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name string `json:"name"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.events.RenamePlayer(r.Context(), chi.URLParam(r, "eventID"), chi.URLParam(r, "playerID"), input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, event, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) ShufflePlayersHandler(w http.ResponseWriter, r *http.Request) {
	event, err := h.events.ShufflePlayers(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, event, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) StartEventHandler(w http.ResponseWriter, r *http.Request) {
	event, err := h.events.StartEvent(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, event, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) AdvanceToPhaseHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Phase models.Phase `json:"phase"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.events.AdvanceToPhase(r.Context(), chi.URLParam(r, "eventID"), input.Phase)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, event, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) GetStageHandler(w http.ResponseWriter, r *http.Request) {
	info, err := h.events.Stage(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, info, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) SyncToStageHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Stage string `json:"stage"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.events.SyncToStage(r.Context(), chi.URLParam(r, "eventID"), input.Stage)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, event, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) DraftNextPackHandler(w http.ResponseWriter, r *http.Request) {
	event, err := h.events.AdvanceDraftPack(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, event, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) DraftCompleteHandler(w http.ResponseWriter, r *http.Request) {
	event, err := h.events.CompleteDraft(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, event, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) DraftLogHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Message string `json:"message"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.events.AppendDraftLog(r.Context(), chi.URLParam(r, "eventID"), input.Message)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, event, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) TimerActionHandler(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	var event *models.EventSession
	var err error
	switch chi.URLParam(r, "action") {
	case "start":
		event, err = h.events.StartTimer(r.Context(), eventID)
	case "pause":
		event, err = h.events.PauseTimer(r.Context(), eventID)
	case "resume":
		event, err = h.events.ResumeTimer(r.Context(), eventID)
	case "reset":
		event, err = h.events.ResetTimer(r.Context(), eventID)
	default:
		errorResponse(w, r, http.StatusBadRequest, "unknown timer action")
		return
	}
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, event, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) TimerAdjustHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		DeltaSeconds int `json:"deltaSeconds"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.events.AdjustTimer(r.Context(), chi.URLParam(r, "eventID"), input.DeltaSeconds)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, event, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) DeckbuildingCompleteHandler(complete bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, err := h.events.SetDeckbuildingComplete(r.Context(), chi.URLParam(r, "eventID"), complete)
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		if err := writeJSON(w, http.StatusOK, event, nil); err != nil {
			serverErrorResponse(w, r, err)
		}
	}
}

func (h *EventHandler) GeneratePairingsHandler(w http.ResponseWriter, r *http.Request) {
	round, err := getIntFromURL(r, "roundNumber")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.events.GeneratePairings(r.Context(), chi.URLParam(r, "eventID"), round)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, event, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) FinalizeRoundHandler(w http.ResponseWriter, r *http.Request) {
	event, err := h.events.FinalizeRound(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, event, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) SetMatchResultHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Result *models.MatchResult `json:"result"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.events.SetMatchResult(r.Context(), chi.URLParam(r, "eventID"), chi.URLParam(r, "matchID"), input.Result)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, event, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	standings, err := h.events.Standings(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
