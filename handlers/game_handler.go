package handlers

import (
	"net"
	"net/http"

	"github.com/foosdev/foosball-tracker/services"
)

type GameHandler struct {
	gameService *services.GameService
}

func NewGameHandler(gameService *services.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

// CreateHandler handles POST /games
func (h *GameHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input services.GameInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.RecordGame(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler handles GET /games
func (h *GameHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", "1")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	perPage, err := queryInt(r, "per_page", "20")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	games, total, err := h.gameService.ListGames(r.Context(), page, perPage)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"games": games, "total": total}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler handles GET /games/{gameID}
func (h *GameHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.GetGame(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateHandler handles PUT /games/{gameID}
func (h *GameHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.GameInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.UpdateGame(r.Context(), id, input, clientIP(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteHandler handles DELETE /games/{gameID}
func (h *GameHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.gameService.DeleteGame(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AuditLogHandler handles GET /games/{gameID}/audit
func (h *GameHandler) AuditLogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entries, err := h.gameService.GameAuditLog(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"audit_log": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
