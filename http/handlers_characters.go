package http

import (
	"net/http"

	"questlog/campaign"
)

// CreateCharacter serves both route forms: nested under the game
// (/games/{gameID}/players/{playerID}/characters) and flat
// (/players/{playerID}/characters) with game_id in the body.
func (h *Handlers) CreateCharacter(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requestUser(w, r)
	if !ok {
		return
	}
	playerID, ok := pathID(r, "playerID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid player id")
		return
	}

	var req struct {
		campaign.CharacterParams
		GameID int64 `json:"game_id"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	gameID, fromPath := pathID(r, "gameID")
	if !fromPath {
		gameID = req.GameID
	}
	if gameID <= 0 {
		writeError(w, http.StatusBadRequest, "game_id is required")
		return
	}

	character, err := h.campaigns.CreateCharacter(userID, gameID, playerID, req.CharacterParams)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, character)
}

func (h *Handlers) UpdateCharacter(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requestUser(w, r)
	if !ok {
		return
	}
	characterID, ok := pathID(r, "characterID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid character id")
		return
	}

	var patch campaign.CharacterPatch
	if err := readJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	character, err := h.campaigns.UpdateCharacter(userID, characterID, patch)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, character)
}

func (h *Handlers) DeleteCharacter(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requestUser(w, r)
	if !ok {
		return
	}
	characterID, ok := pathID(r, "characterID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid character id")
		return
	}

	if err := h.campaigns.DeleteCharacter(userID, characterID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
