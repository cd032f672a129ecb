package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gpozzoni/tennis-academy-api/models"
	"github.com/gpozzoni/tennis-academy-api/repositories"
	"github.com/gpozzoni/tennis-academy-api/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(matchService services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	matchID, err := idParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.GetByID(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListByTournament supports phase, group_id and status query filters.
func (h *MatchHandler) ListByTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := idParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var filter repositories.MatchFilter
	if p := r.URL.Query().Get("phase"); p != "" {
		switch models.MatchPhase(p) {
		case models.MatchPhaseGroup, models.MatchPhaseElimination:
			phase := models.MatchPhase(p)
			filter.Phase = &phase
		default:
			badRequestResponse(w, r, errors.New("unknown phase filter"))
			return
		}
	}
	if g := r.URL.Query().Get("group_id"); g != "" {
		groupID, convErr := strconv.Atoi(g)
		if convErr != nil || groupID <= 0 {
			badRequestResponse(w, r, errors.New("invalid group_id filter"))
			return
		}
		filter.GroupID = &groupID
	}
	if s := r.URL.Query().Get("status"); s != "" {
		switch models.MatchStatus(s) {
		case models.MatchStatusPending, models.MatchStatusScheduled, models.MatchStatusCompleted, models.MatchStatusBye:
			status := models.MatchStatus(s)
			filter.Status = &status
		default:
			badRequestResponse(w, r, errors.New("unknown status filter"))
			return
		}
	}

	matches, err := h.matchService.ListByTournament(r.Context(), tournamentID, filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	matchID, err := idParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.RecordResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.WinnerParticipantID <= 0 {
		badRequestResponse(w, r, errors.New("winner_participant_id is required"))
		return
	}

	match, err := h.matchService.RecordResult(r.Context(), matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) UnwindResult(w http.ResponseWriter, r *http.Request) {
	matchID, err := idParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.UnwindResult(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
