package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/calder/folio/internal/apperr"
	"github.com/calder/folio/internal/auth"
)

// SessionHandler exposes the admin session gate over HTTP. A nil gate
// means the gate is disabled; status reports that and login is rejected.
type SessionHandler struct {
	gate *auth.Gate
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(gate *auth.Gate) *SessionHandler {
	return &SessionHandler{gate: gate}
}

// Status handles GET /api/session. Unauthenticated; the admin UI uses it
// to decide between the login form and the provisioning form.
func (h *SessionHandler) Status(w http.ResponseWriter, _ *http.Request) {
	st := SessionStatus{}
	if h.gate != nil {
		st.Enabled = true
		st.Provisioned = h.gate.IsProvisioned()
	}
	writeJSON(w, http.StatusOK, st)
}

// Provision handles POST /api/session/provision. Setting the first secret
// is open; replacing an existing one requires a live session.
func (h *SessionHandler) Provision(w http.ResponseWriter, r *http.Request) {
	if h.gate == nil {
		writeJSON(w, http.StatusConflict, errorBody("session gate is disabled"))
		return
	}
	if h.gate.IsProvisioned() && !h.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
		return
	}
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.gate.Provision(req.Password); err != nil {
		if errors.Is(err, apperr.ErrInvalid) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		slog.Error("provision failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Login handles POST /api/session/login.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.gate == nil {
		writeJSON(w, http.StatusConflict, errorBody("session gate is disabled"))
		return
	}
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	token, err := h.gate.Login(req.Password)
	if err != nil {
		if errors.Is(err, apperr.ErrUnauthorized) {
			writeJSON(w, http.StatusUnauthorized, errorBody("invalid password"))
			return
		}
		slog.Error("login failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{Token: token})
}

// Logout handles POST /api/session/logout. Always succeeds.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.gate != nil {
		if token, ok := bearerToken(r); ok {
			h.gate.Logout(token)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) authorized(r *http.Request) bool {
	token, ok := bearerToken(r)
	return ok && h.gate.Check(token)
}

func bearerToken(r *http.Request) (string, bool) {
	return strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
}
