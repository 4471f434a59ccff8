package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/smart-campus-api/internal/application/verification"
	"github.com/smart-campus-api/internal/domain"
)

type codeIssuer interface {
	IssueCode(ctx context.Context, email string) (*verification.IssueResult, error)
}

// VerificationHandler issues email verification codes.
type VerificationHandler struct {
	svc codeIssuer
}

func NewVerificationHandler(svc codeIssuer) *VerificationHandler {
	return &VerificationHandler{svc: svc}
}

func (h *VerificationHandler) SendEmailCode(w http.ResponseWriter, r *http.Request) {
	var req domain.SendCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	res, err := h.svc.IssueCode(r.Context(), req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
