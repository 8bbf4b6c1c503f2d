package httpapi

import (
	"net/http"

	"recruit_client/internal/common"
	"recruit_client/internal/domain/user"
	"recruit_client/internal/session"
)

// SessionHandler управляет слотом сессии через бэкенд.
type SessionHandler struct {
	auth session.Authenticator
	slot *session.Slot
}

func NewSessionHandler(auth session.Authenticator, slot *session.Slot) *SessionHandler {
	return &SessionHandler{auth: auth, slot: slot}
}

func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	account, err := h.slot.Current(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if account == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: common.KindAuth, Message: "no active session"})
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds user.Credentials
	if err := decodeBody(w, r, &creds); err != nil {
		writeError(w, err)
		return
	}
	if creds.Email == "" || creds.Password == "" {
		writeError(w, &common.ValidationFailure{Field: "email", Message: "email and password are required"})
		return
	}
	account, err := session.Login(r.Context(), h.auth, h.slot, creds)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.slot.Clear(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
