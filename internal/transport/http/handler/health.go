package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/smart-campus-api/internal/pkg/clock"
)

type userCounter interface {
	Count(ctx context.Context) (int64, error)
}

// HealthHandler reports backend liveness for the frontend's connectivity probe.
type HealthHandler struct {
	users          userCounter
	mailConfigured bool
	clock          clock.Clock
}

func NewHealthHandler(users userCounter, mailConfigured bool, c clock.Clock) *HealthHandler {
	if c == nil {
		c = clock.Real()
	}
	return &HealthHandler{users: users, mailConfigured: mailConfigured, clock: c}
}

type HealthEnvelope struct {
	Message   string     `json:"message"`
	Timestamp time.Time  `json:"timestamp"`
	Data      HealthData `json:"data"`
}

type HealthData struct {
	UsersCount  *int64 `json:"users_count"`
	MailService string `json:"mail_service"`
}

func (h *HealthHandler) Test(w http.ResponseWriter, r *http.Request) {
	env := HealthEnvelope{Message: "ok", Timestamp: h.clock.Now().UTC()}
	if n, err := h.users.Count(r.Context()); err != nil {
		slog.Warn("health: count users failed", "err", err)
		env.Message = "degraded"
	} else {
		env.Data.UsersCount = &n
	}
	env.Data.MailService = "unavailable"
	if h.mailConfigured {
		env.Data.MailService = "available"
	}
	writeJSON(w, http.StatusOK, env)
}
