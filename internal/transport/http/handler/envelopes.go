package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/smart-campus-api/internal/domain"
)

// MessageEnvelope is the generic success wrapper.
type MessageEnvelope struct {
	Message string `json:"message"`
}

// ErrorEnvelope is the body of every failed request.
type ErrorEnvelope struct {
	Error            string      `json:"error"`
	Kind             domain.Kind `json:"kind"`
	RemainingSeconds int         `json:"remainingSeconds,omitempty"`
}

// UserPageEnvelope wraps the admin user listing.
type UserPageEnvelope struct {
	Data       []domain.UserView `json:"data"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

var kindStatus = map[domain.Kind]int{
	domain.KindInvalidEmail:      http.StatusBadRequest,
	domain.KindRateLimited:       http.StatusTooManyRequests,
	domain.KindAlreadyRegistered: http.StatusBadRequest,
	domain.KindConflict:          http.StatusBadRequest,
	domain.KindInvalidUsername:   http.StatusBadRequest,
	domain.KindInvalidPassword:   http.StatusBadRequest,
	domain.KindInvalidCode:       http.StatusBadRequest,
	domain.KindBadRequest:        http.StatusBadRequest,
	domain.KindUnauthorized:      http.StatusUnauthorized,
	domain.KindForbidden:         http.StatusForbidden,
	domain.KindNotFound:          http.StatusNotFound,
	domain.KindInternal:          http.StatusInternalServerError,
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// httpError maps a service error to its status and envelope. Internal
// failures get an opaque message.
func httpError(err error) (int, ErrorEnvelope) {
	kind := domain.KindOf(err)
	env := ErrorEnvelope{Error: err.Error(), Kind: kind}
	var rl *domain.RateLimitError
	if errors.As(err, &rl) {
		env.RemainingSeconds = rl.Remaining
	}
	if kind == domain.KindInternal {
		env.Error = "internal server error"
	}
	return kindStatus[kind], env
}

func writeError(w http.ResponseWriter, err error) {
	status, env := httpError(err)
	if env.RemainingSeconds > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(env.RemainingSeconds))
	}
	writeJSON(w, status, env)
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, ErrorEnvelope{Error: msg, Kind: domain.KindBadRequest})
}

func writeUnauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, ErrorEnvelope{Error: "unauthorized", Kind: domain.KindUnauthorized})
}
