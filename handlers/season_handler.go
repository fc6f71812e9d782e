package handlers

import (
	"net/http"

	"github.com/foosdev/foosball-tracker/services"
)

type SeasonHandler struct {
	seasonService *services.SeasonService
	recalcService *services.RecalculationService
}

func NewSeasonHandler(seasonService *services.SeasonService, recalcService *services.RecalculationService) *SeasonHandler {
	return &SeasonHandler{seasonService: seasonService, recalcService: recalcService}
}

// ListHandler handles GET /seasons
func (h *SeasonHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	seasons, err := h.seasonService.ListSeasons(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"seasons": seasons}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CurrentHandler handles GET /seasons/current
func (h *SeasonHandler) CurrentHandler(w http.ResponseWriter, r *http.Request) {
	season, err := h.seasonService.EnsureCurrentSeason(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"season": season}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecalculateHandler handles POST /seasons/{seasonID}/recalculate
func (h *SeasonHandler) RecalculateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "seasonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.recalcService.RecalculateSeason(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "recalculated"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecalculateAllHandler handles POST /seasons/recalculate
func (h *SeasonHandler) RecalculateAllHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.recalcService.RecalculateAll(r.Context()); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "recalculated"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
