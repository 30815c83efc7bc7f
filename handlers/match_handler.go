package handlers

import (
	"net/http"

	"github.com/courtline/scoring-system/models"
	"github.com/courtline/scoring-system/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(ms services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: ms}
}

// CreateHandler handles POST /games
func (h *MatchHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input services.CreateMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.CreateMatch(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"game": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler handles GET /games
func (h *MatchHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	matches, err := h.matchService.ListMatches(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"games": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler handles GET /games/{gameID}
func (h *MatchHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.GetMatch(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecordPointHandler handles POST /games/{gameID}/points
func (h *MatchHandler) RecordPointHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Team models.TeamSide `json:"team"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.RecordPoint(r.Context(), id, input.Team)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// EndSetHandler handles POST /games/{gameID}/set-end
func (h *MatchHandler) EndSetHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.EndSet(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UndoHandler handles POST /games/{gameID}/undo
func (h *MatchHandler) UndoHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.Undo(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// EndMatchHandler handles PATCH /games/{gameID}/end
func (h *MatchHandler) EndMatchHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.EndMatch(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateScoreHandler handles PATCH /games/{gameID}/score
func (h *MatchHandler) UpdateScoreHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateScoreInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.UpdateScore(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateSetsHandler handles PATCH /games/{gameID}/sets
func (h *MatchHandler) UpdateSetsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateSetsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.UpdateSets(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
