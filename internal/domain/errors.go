package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrBadRequest        = errors.New("bad request")
	ErrInvalidEmail      = errors.New("invalid email")
	ErrInvalidUsername   = errors.New("username must be 3-20 letters, digits or underscores")
	ErrInvalidPassword   = errors.New("password must be at least 6 characters with a letter and a digit")
	ErrInvalidCode       = errors.New("verification code is invalid or expired")
	ErrAlreadyRegistered = errors.New("email already registered")
	ErrInternal          = errors.New("internal error")
)

// RateLimitError reports a denied action and how long the caller must wait.
type RateLimitError struct {
	Scope     string
	Remaining int // whole seconds, at least 1
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited, retry in %ds", e.Scope, e.Remaining)
}

// RetryAfter is Remaining as a duration.
func (e *RateLimitError) RetryAfter() time.Duration {
	return time.Duration(e.Remaining) * time.Second
}

// Kind is the stable error identifier exposed to API callers.
type Kind string

const (
	KindInvalidEmail      Kind = "InvalidEmail"
	KindRateLimited       Kind = "RateLimited"
	KindAlreadyRegistered Kind = "AlreadyRegistered"
	KindConflict          Kind = "Conflict"
	KindInvalidUsername   Kind = "InvalidUsername"
	KindInvalidPassword   Kind = "InvalidPassword"
	KindInvalidCode       Kind = "InvalidCode"
	KindBadRequest        Kind = "BadRequest"
	KindUnauthorized      Kind = "Unauthorized"
	KindForbidden         Kind = "Forbidden"
	KindNotFound          Kind = "NotFound"
	KindInternal          Kind = "Internal"
)

// KindOf classifies err. Anything unrecognised is Internal.
func KindOf(err error) Kind {
	var rl *RateLimitError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &rl):
		return KindRateLimited
	case errors.Is(err, ErrInvalidEmail):
		return KindInvalidEmail
	case errors.Is(err, ErrAlreadyRegistered):
		return KindAlreadyRegistered
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrInvalidUsername):
		return KindInvalidUsername
	case errors.Is(err, ErrInvalidPassword):
		return KindInvalidPassword
	case errors.Is(err, ErrInvalidCode):
		return KindInvalidCode
	case errors.Is(err, ErrBadRequest):
		return KindBadRequest
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindInternal
	}
}
