package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/smart-campus-api/internal/application/user"
	"github.com/smart-campus-api/internal/domain"
	"github.com/smart-campus-api/internal/transport/http/middleware"
)

// MaxAvatarBytes bounds avatar uploads.
const MaxAvatarBytes = 2 << 20

// UserHandler handles registration and profile endpoints.
type UserHandler struct {
	svc user.Service
}

func NewUserHandler(svc user.Service) *UserHandler { return &UserHandler{svc: svc} }

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if _, err := h.svc.Register(r.Context(), req, middleware.ClientIP(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, MessageEnvelope{Message: "registration successful"})
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}
	u, err := h.svc.Get(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u.View())
}

// UploadAvatar takes the raw image as the request body.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}
	contentType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		writeBadRequest(w, "missing or invalid Content-Type")
		return
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxAvatarBytes))
	if err != nil {
		writeBadRequest(w, "avatar too large")
		return
	}
	if len(data) == 0 {
		writeBadRequest(w, "empty avatar")
		return
	}
	u, err := h.svc.UploadAvatar(r.Context(), claims.UserID, bytes.NewReader(data), contentType)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u.View())
}

// List is admin-only; pagination is cursor based.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	users, next, err := h.svc.List(r.Context(), int32(limit), r.URL.Query().Get("cursor"))
	if err != nil {
		writeError(w, err)
		return
	}
	views := make([]domain.UserView, len(users))
	for i := range users {
		views[i] = users[i].View()
	}
	writeJSON(w, http.StatusOK, UserPageEnvelope{Data: views, NextCursor: next})
}
