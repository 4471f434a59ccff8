package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// SweepFunc evicts expired state and reports how many items it removed.
type SweepFunc func() int

type job struct {
	name  string
	sweep SweepFunc
}

// Sweeper runs every registered SweepFunc from one periodic cron entry.
type Sweeper struct {
	mu       sync.Mutex
	cron     *cron.Cron
	interval time.Duration
	jobs     []job
	started  bool
}

// New creates a Sweeper that fires every interval once started.
func New(interval time.Duration) (*Sweeper, error) {
	if interval < time.Second {
		return nil, fmt.Errorf("sweep interval must be at least 1s, got %s", interval)
	}
	return &Sweeper{
		cron:     cron.New(),
		interval: interval,
	}, nil
}

// Register adds a named sweep. Registering after Start is not allowed.
func (s *Sweeper) Register(name string, fn SweepFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return fmt.Errorf("sweeper: register %q after start", name)
	}
	s.jobs = append(s.jobs, job{name: name, sweep: fn})
	return nil
}

// RunOnce sweeps every registered job synchronously and returns the total evicted.
func (s *Sweeper) RunOnce() int {
	s.mu.Lock()
	jobs := append([]job(nil), s.jobs...)
	s.mu.Unlock()

	total := 0
	for _, j := range jobs {
		n := j.sweep()
		if n > 0 {
			slog.Debug("sweep evicted expired entries", "job", j.name, "count", n)
		}
		total += n
	}
	return total
}

// Start schedules the periodic sweep.
func (s *Sweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	s.cron.Schedule(cron.Every(s.interval), cron.FuncJob(func() { s.RunOnce() }))
	s.cron.Start()
}

// Stop halts scheduling and waits for a running sweep to finish or ctx to end.
func (s *Sweeper) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
