package middleware

import (
	"encoding/json"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/smart-campus-api/internal/domain"
	"github.com/smart-campus-api/internal/pkg/clock"
	"golang.org/x/time/rate"
)

// DefaultIdleTTL is how long an untouched bucket survives a Sweep.
const DefaultIdleTTL = 10 * time.Minute

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a per-IP token-bucket burst guard. Stale buckets are removed
// by Sweep, which the process sweeper calls on its schedule.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiter
	r        rate.Limit
	burst    int
	idleTTL  time.Duration
	clock    clock.Clock
}

// NewRateLimiter creates a per-IP limiter: r requests/second, burst up to burst requests.
func NewRateLimiter(r rate.Limit, burst int, c clock.Clock) *RateLimiter {
	if c == nil {
		c = clock.Real()
	}
	return &RateLimiter{
		limiters: make(map[string]*ipLimiter),
		r:        r,
		burst:    burst,
		idleTTL:  DefaultIdleTTL,
		clock:    c,
	}
}

func (rl *RateLimiter) get(ip string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if v, ok := rl.limiters[ip]; ok {
		v.lastSeen = now
		return v.limiter
	}
	l := rate.NewLimiter(rl.r, rl.burst)
	rl.limiters[ip] = &ipLimiter{limiter: l, lastSeen: now}
	return l
}

// Sweep drops buckets idle for longer than the idle TTL and returns how many went.
func (rl *RateLimiter) Sweep() int {
	now := rl.clock.Now()
	rl.mu.Lock()
	defer rl.mu.Unlock()
	n := 0
	for ip, v := range rl.limiters {
		if now.Sub(v.lastSeen) > rl.idleTTL {
			delete(rl.limiters, ip)
			n++
		}
	}
	return n
}

// Limit is the middleware handler that enforces the rate limit per client IP.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := rl.clock.Now()
		lim := rl.get(ClientIP(r), now)
		if lim.AllowN(now, 1) {
			next.ServeHTTP(w, r)
			return
		}
		res := lim.ReserveN(now, 1)
		wait := res.DelayFrom(now)
		res.CancelAt(now)
		secs := int(math.Ceil(wait.Seconds()))
		if secs < 1 {
			secs = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(secs))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":            "too many requests",
			"kind":             domain.KindRateLimited,
			"remainingSeconds": secs,
		})
	})
}

// ClientIP resolves the caller address: first X-Forwarded-For hop, then
// X-Real-Ip, then the host part of RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xr := strings.TrimSpace(r.Header.Get("X-Real-Ip")); xr != "" {
		return xr
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
