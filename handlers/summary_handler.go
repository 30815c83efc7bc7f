package handlers

import (
	"fmt"
	"net/http"

	"github.com/courtline/scoring-system/services"
)

type SummaryHandler struct {
	summaryService services.SummaryService
	csvService     services.CSVService
}

func NewSummaryHandler(ss services.SummaryService, cs services.CSVService) *SummaryHandler {
	return &SummaryHandler{
		summaryService: ss,
		csvService:     cs,
	}
}

// GetSummaryHandler handles GET /games/{gameID}/summary
func (h *SummaryHandler) GetSummaryHandler(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	summary, err := h.summaryService.MatchSummary(r.Context(), gameID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"summary": summary}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ExportSetsHandler handles GET /games/{gameID}/export/sets
func (h *SummaryHandler) ExportSetsHandler(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	data, filename, err := h.csvService.ExportSetScores(r.Context(), gameID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeCSV(w, filename, data)
}

// ExportStatsHandler handles GET /games/{gameID}/export/stats
func (h *SummaryHandler) ExportStatsHandler(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	data, filename, err := h.csvService.ExportPlayerStats(r.Context(), gameID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeCSV(w, filename, data)
}

func writeCSV(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
