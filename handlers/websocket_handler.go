package handlers

import (
	"net/http"

	"github.com/foosdev/foosball-tracker/brackets"
)

type WebSocketHandler struct {
	hub *brackets.Hub
}

func NewWebSocketHandler(hub *brackets.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// LeaderboardHandler handles GET /ws/leaderboard
func (h *WebSocketHandler) LeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	h.hub.ServeWS(w, r, brackets.LeaderboardRoom)
}

// TournamentHandler handles GET /ws/tournaments/{tournamentID}
func (h *WebSocketHandler) TournamentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	h.hub.ServeWS(w, r, brackets.TournamentRoom(id))
}
