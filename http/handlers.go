package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"questlog/auth"
	"questlog/campaign"
)

type Handlers struct {
	authService *auth.Service
	campaigns   *campaign.Service
	log         *slog.Logger
}

func NewHandlers(authService *auth.Service, campaigns *campaign.Service, log *slog.Logger) *Handlers {
	if log == nil {
		log = slog.Default()
	}
	return &Handlers{
		authService: authService,
		campaigns:   campaigns,
		log:         log,
	}
}

// writeServiceError maps campaign errors onto the API's status codes:
// validation 400, ownership 401, missing parents 404, the rest 500.
func (h *Handlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *campaign.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, vErr.Msg)
	case errors.Is(err, campaign.ErrNotOwner):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, campaign.ErrGameNotFound),
		errors.Is(err, campaign.ErrPlayerNotFound),
		errors.Is(err, campaign.ErrCharacterNotFound),
		errors.Is(err, campaign.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		h.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	return id, err == nil && id > 0
}

// requestUser pulls the authenticated user id set by AuthMiddleware.
func (h *Handlers) requestUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "401 unauthorized")
	}
	return userID, ok
}

// Signup registers the account, logs it in, and returns the (empty) nested
// graph, so the client can Initialize from the response like any login.
func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, sessionID, err := h.authService.Register(req.Username, req.Password)
	if err != nil {
		switch err {
		case auth.ErrInvalidUsername, auth.ErrInvalidPassword:
			writeError(w, http.StatusBadRequest, err.Error())
		case auth.ErrUserExists:
			writeError(w, http.StatusConflict, err.Error())
		default:
			h.log.Error("signup failed", "error", err)
			writeError(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	h.authService.GetSessionManager().SetSessionCookie(w, sessionID)

	u, err := h.campaigns.UserGraph(user.ID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.log.Info("user registered", "user_id", user.ID, "username", user.Username)
	writeJSON(w, http.StatusCreated, u)
}

// Login authenticates and returns the user's full nested graph in one
// response; the client loads everything eagerly from it.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, sessionID, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, err.Error())
		} else {
			h.log.Error("login failed", "error", err)
			writeError(w, http.StatusInternalServerError, "login failed")
		}
		return
	}

	h.authService.GetSessionManager().SetSessionCookie(w, sessionID)

	u, err := h.campaigns.UserGraph(user.ID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.log.Info("user logged in", "user_id", user.ID, "username", user.Username)
	writeJSON(w, http.StatusOK, u)
}

// CheckSession returns the full nested graph for the cookie's user.
func (h *Handlers) CheckSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requestUser(w, r)
	if !ok {
		return
	}

	u, err := h.campaigns.UserGraph(userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID := auth.GetSessionFromRequest(r)
	if sessionID != "" {
		h.authService.Logout(sessionID)
		h.authService.GetSessionManager().ClearSessionCookie(w)
	}
	w.WriteHeader(http.StatusNoContent)
}
