package handler

import (
	"encoding/json"
	"net/http"

	"github.com/smart-campus-api/internal/application/session"
	"github.com/smart-campus-api/internal/domain"
	"github.com/smart-campus-api/internal/pkg/validate"
)

// SessionHandler handles login.
type SessionHandler struct {
	svc session.Service
}

func NewSessionHandler(svc session.Service) *SessionHandler {
	return &SessionHandler{svc: svc}
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeBadRequest(w, "username and password are required")
		return
	}
	res, err := h.svc.Login(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
