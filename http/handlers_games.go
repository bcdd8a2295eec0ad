package http

import (
	"net/http"

	"questlog/campaign"
)

func (h *Handlers) ListGames(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requestUser(w, r)
	if !ok {
		return
	}

	u, err := h.campaigns.UserGraph(userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u.Games)
}

func (h *Handlers) CreateGame(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requestUser(w, r)
	if !ok {
		return
	}

	var params campaign.GameParams
	if err := readJSON(r, &params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	game, err := h.campaigns.CreateGame(userID, params)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, game)
}

func (h *Handlers) UpdateGame(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requestUser(w, r)
	if !ok {
		return
	}
	gameID, ok := pathID(r, "gameID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid game id")
		return
	}

	var patch campaign.GamePatch
	if err := readJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	game, err := h.campaigns.UpdateGame(userID, gameID, patch)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

func (h *Handlers) DeleteGame(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requestUser(w, r)
	if !ok {
		return
	}
	gameID, ok := pathID(r, "gameID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid game id")
		return
	}

	if err := h.campaigns.DeleteGame(userID, gameID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
