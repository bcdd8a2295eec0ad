package http

import (
	"net/http"

	"questlog/campaign"
	"questlog/graph"
)

// playerResponse is the creation payload; Character is present only for the
// ?include=character variant where a starting character was created in the
// same call.
type playerResponse struct {
	graph.Player
	Character *graph.Character `json:"character,omitempty"`
}

func (h *Handlers) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requestUser(w, r)
	if !ok {
		return
	}
	gameID, ok := pathID(r, "gameID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid game id")
		return
	}

	var params campaign.PlayerParams
	if err := readJSON(r, &params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if r.URL.Query().Get("include") != "character" {
		params.Character = nil
	}

	player, character, err := h.campaigns.CreatePlayer(userID, gameID, params)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, playerResponse{Player: player, Character: character})
}

func (h *Handlers) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requestUser(w, r)
	if !ok {
		return
	}
	playerID, ok := pathID(r, "playerID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid player id")
		return
	}

	var patch campaign.PlayerPatch
	if err := readJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	player, err := h.campaigns.UpdatePlayer(userID, playerID, patch)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, player)
}

func (h *Handlers) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requestUser(w, r)
	if !ok {
		return
	}
	playerID, ok := pathID(r, "playerID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid player id")
		return
	}

	if err := h.campaigns.DeletePlayer(userID, playerID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
