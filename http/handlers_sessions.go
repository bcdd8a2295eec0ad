package http

import (
	"net/http"

	"questlog/campaign"
)

func (h *Handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requestUser(w, r)
	if !ok {
		return
	}
	gameID, ok := pathID(r, "gameID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid game id")
		return
	}

	var params campaign.SessionParams
	if err := readJSON(r, &params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.campaigns.CreateSession(userID, gameID, params)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (h *Handlers) UpdateSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requestUser(w, r)
	if !ok {
		return
	}
	sessionID, ok := pathID(r, "sessionID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	var patch campaign.SessionPatch
	if err := readJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.campaigns.UpdateSession(userID, sessionID, patch)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *Handlers) DeleteSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requestUser(w, r)
	if !ok {
		return
	}
	sessionID, ok := pathID(r, "sessionID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	if err := h.campaigns.DeleteSession(userID, sessionID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
