package handlers

import (
	"net/http"
	"strconv"

	"github.com/foosdev/foosball-tracker/services"
)

type LeaderboardHandler struct {
	statsService       *services.StatisticsService
	seasonService      *services.SeasonService
	cakeService        *services.CakeService
	leaderboardService *services.LeaderboardService
}

func NewLeaderboardHandler(
	statsService *services.StatisticsService,
	seasonService *services.SeasonService,
	cakeService *services.CakeService,
	leaderboardService *services.LeaderboardService,
) *LeaderboardHandler {
	return &LeaderboardHandler{
		statsService:       statsService,
		seasonService:      seasonService,
		cakeService:        cakeService,
		leaderboardService: leaderboardService,
	}
}

// SeasonLeaderboardHandler handles GET /leaderboard. With no season_id it
// serves the current season.
func (h *LeaderboardHandler) SeasonLeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	minGames, err := queryInt(r, "min_games", "0")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	seasonID, err := queryInt(r, "season_id", "0")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if seasonID == 0 {
		season, err := h.seasonService.EnsureCurrentSeason(r.Context())
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		seasonID = season.ID
	}

	rows, err := h.statsService.SeasonLeaderboard(r.Context(), seasonID, minGames)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": rows, "season_id": seasonID}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AllTimeLeaderboardHandler handles GET /leaderboard/all-time
func (h *LeaderboardHandler) AllTimeLeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	minGames, err := queryInt(r, "min_games", "0")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rows, err := h.statsService.AllTimeLeaderboard(r.Context(), minGames)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": rows}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CakesHandler handles GET /cakes
func (h *LeaderboardHandler) CakesHandler(w http.ResponseWriter, r *http.Request) {
	var seasonID *int
	if value := r.URL.Query().Get("season_id"); value != "" {
		id, err := strconv.Atoi(value)
		if err != nil || id < 1 {
			badRequestResponse(w, r, errInvalidSeasonID)
			return
		}
		seasonID = &id
	}

	balances, err := h.cakeService.ListBalances(r.Context(), seasonID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"cakes": balances}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PlayerHistoryHandler handles GET /players/{playerID}/history
func (h *LeaderboardHandler) PlayerHistoryHandler(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var seasonID *int
	if value := r.URL.Query().Get("season_id"); value != "" {
		id, err := strconv.Atoi(value)
		if err != nil || id < 1 {
			badRequestResponse(w, r, errInvalidSeasonID)
			return
		}
		seasonID = &id
	}

	history, err := h.leaderboardService.PlayerHistory(r.Context(), playerID, seasonID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"history": history}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
