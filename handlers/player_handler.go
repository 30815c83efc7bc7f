package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/courtline/scoring-system/services"
)

type PlayerHandler struct {
	playerService services.PlayerService
	csvService    services.CSVService
}

func NewPlayerHandler(ps services.PlayerService, cs services.CSVService) *PlayerHandler {
	return &PlayerHandler{
		playerService: ps,
		csvService:    cs,
	}
}

// CreateHandler handles POST /players
func (h *PlayerHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input services.CreatePlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.playerService.CreatePlayer(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListByGameHandler handles GET /games/{gameID}/players
func (h *PlayerHandler) ListByGameHandler(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	players, err := h.playerService.ListByMatch(r.Context(), gameID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateStatsHandler handles PATCH /players/stats
func (h *PlayerHandler) UpdateStatsHandler(w http.ResponseWriter, r *http.Request) {
	var input services.UpdatePlayerStatsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.playerService.AdjustStat(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteHandler handles DELETE /players/{playerID}
func (h *PlayerHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.playerService.DeletePlayer(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ImportRosterHandler handles POST /games/{gameID}/players/import. The CSV
// arrives either as a multipart "file" field or as the raw request body.
func (h *PlayerHandler) ImportRosterHandler(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var reader io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
		defer file.Close()
		reader = file
	}

	players, err := h.csvService.ImportRoster(r.Context(), gameID, reader)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	payload := jsonResponse{"players": players, "count": len(players), "gameId": gameID}
	if err := writeJSON(w, http.StatusCreated, payload, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
