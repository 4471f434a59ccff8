package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/smart-campus-api/internal/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimiter() (*Limiter, *clock.Manual) {
	c := clock.NewManual(time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC))
	return New(c), c
}

func TestTryAcquire_AllowedThenDenied(t *testing.T) {
	l, _ := newLimiter()

	d := l.TryAcquire("verify:a@b.com", 60*time.Second)
	require.True(t, d.Allowed)
	assert.Equal(t, 0, d.RemainingSeconds())

	d = l.TryAcquire("verify:a@b.com", 60*time.Second)
	require.False(t, d.Allowed)
	assert.Equal(t, 60, d.RemainingSeconds())
}

func TestTryAcquire_RemainingRoundsUp(t *testing.T) {
	l, c := newLimiter()
	l.TryAcquire("10.0.0.1", 30*time.Second)

	c.Advance(12*time.Second + 300*time.Millisecond)
	d := l.TryAcquire("10.0.0.1", 30*time.Second)
	require.False(t, d.Allowed)
	assert.Equal(t, 18, d.RemainingSeconds())

	c.Advance(17*time.Second + 600*time.Millisecond)
	d = l.TryAcquire("10.0.0.1", 30*time.Second)
	require.False(t, d.Allowed)
	assert.Equal(t, 1, d.RemainingSeconds())
}

func TestTryAcquire_AllowedAgainAfterWindow(t *testing.T) {
	l, c := newLimiter()
	require.True(t, l.TryAcquire("k", 30*time.Second).Allowed)

	c.Advance(29 * time.Second)
	assert.False(t, l.TryAcquire("k", 30*time.Second).Allowed)

	c.Advance(time.Second)
	assert.True(t, l.TryAcquire("k", 30*time.Second).Allowed, "elapsed == window is admitted")
	assert.False(t, l.TryAcquire("k", 30*time.Second).Allowed, "admission restarts the window")
}

func TestTryAcquire_DeniedCallDoesNotExtendWindow(t *testing.T) {
	l, c := newLimiter()
	l.TryAcquire("k", 60*time.Second)
	c.Advance(40 * time.Second)
	l.TryAcquire("k", 60*time.Second)
	c.Advance(20 * time.Second)
	assert.True(t, l.TryAcquire("k", 60*time.Second).Allowed)
}

func TestTryAcquire_KeysAreIndependent(t *testing.T) {
	l, _ := newLimiter()
	assert.True(t, l.TryAcquire("a", time.Minute).Allowed)
	assert.True(t, l.TryAcquire("b", time.Minute).Allowed)
}

func TestTryAcquire_ConcurrentSingleAdmission(t *testing.T) {
	l, _ := newLimiter()
	const n = 100

	var wg sync.WaitGroup
	results := make(chan Decision, n)
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			results <- l.TryAcquire("verify:race@u.edu", 60*time.Second)
		}()
	}
	close(start)
	wg.Wait()
	close(results)

	allowed, denied := 0, 0
	for d := range results {
		if d.Allowed {
			allowed++
		} else {
			denied++
			assert.Equal(t, 60, d.RemainingSeconds())
		}
	}
	assert.Equal(t, 1, allowed)
	assert.Equal(t, n-1, denied)
}

func TestReset_AndSweep(t *testing.T) {
	l, c := newLimiter()
	l.TryAcquire("a", time.Minute)
	l.TryAcquire("b", time.Minute)

	l.Reset("a")
	assert.True(t, l.TryAcquire("a", time.Minute).Allowed)

	c.Advance(time.Minute)
	assert.Equal(t, 2, l.Sweep())
}
