package ratelimit

import (
	"time"

	"github.com/smart-campus-api/internal/pkg/clock"
	"github.com/smart-campus-api/internal/pkg/ttlstore"
)

// Decision is the outcome of TryAcquire.
type Decision struct {
	Allowed bool
	// Remaining is the wait before the key is admitted again. Zero when Allowed.
	Remaining time.Duration
}

// RemainingSeconds rounds Remaining up to whole seconds, minimum 1 when denied.
func (d Decision) RemainingSeconds() int {
	if d.Allowed {
		return 0
	}
	secs := int((d.Remaining + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}

// Limiter enforces a cooldown window per key: after an admitted action,
// the same key is denied until window has elapsed.
type Limiter struct {
	clock clock.Clock
	last  *ttlstore.Store[time.Time]
}

// New creates a Limiter reading time from c.
func New(c clock.Clock) *Limiter {
	if c == nil {
		c = clock.Real()
	}
	return &Limiter{clock: c, last: ttlstore.New[time.Time](c)}
}

// TryAcquire admits key when at least window has passed since its last
// admitted action, recording now as the new action time in the same step.
// A record lives exactly as long as its window, so a live record means
// the key is still cooling down.
func (l *Limiter) TryAcquire(key string, window time.Duration) Decision {
	if window <= 0 {
		return Decision{Allowed: true}
	}
	e, ok := l.last.PutIfAbsent(key, l.clock.Now(), window)
	if ok {
		return Decision{Allowed: true}
	}
	remaining := e.ExpiresAt.Sub(l.clock.Now())
	if remaining < 0 {
		remaining = 0
	}
	return Decision{Remaining: remaining}
}

// Reset forgets the last action for key.
func (l *Limiter) Reset(key string) {
	l.last.Remove(key)
}

// Sweep drops records whose window has elapsed.
func (l *Limiter) Sweep() int {
	return l.last.Sweep()
}
