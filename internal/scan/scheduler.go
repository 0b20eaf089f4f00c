package scan

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/arbisport/arbisport/internal/domain"
)

// SchedulerState is the lifecycle state of the continuous scan loop.
type SchedulerState string

const (
	StateIdle     SchedulerState = "idle"
	StateRunning  SchedulerState = "running"
	StateStopping SchedulerState = "stopping"
)

// stopJoinTimeout bounds how long Stop waits for the loop goroutine before
// giving up and reporting the stop as best-effort.
const stopJoinTimeout = 5 * time.Second

// SchedulerStatus is the snapshot returned by Status for the API surface.
type SchedulerStatus struct {
	State        SchedulerState      `json:"state"`
	Passes       int                 `json:"passes"`
	LastPassAt   *time.Time          `json:"last_pass_at,omitempty"`
	LastCounters domain.PassCounters `json:"last_counters"`
}

// Scheduler drives the orchestrator on an interval. At most one continuous
// loop runs at a time; snapshot passes may overlap it, the ledger tolerates
// concurrent appends.
type Scheduler struct {
	orch   *Orchestrator
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	state    SchedulerState
	cancel   context.CancelFunc
	done     chan struct{}
	passes   int
	lastAt   time.Time
	lastPass domain.PassCounters
}

// NewScheduler creates an idle Scheduler around orch.
func NewScheduler(orch *Orchestrator, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		orch:   orch,
		logger: logger.With(slog.String("component", "scheduler")),
		now:    time.Now,
		state:  StateIdle,
	}
}

// Start launches the continuous loop. It returns domain.ErrAlreadyRunning if
// a loop is already active, and domain.ErrInvalidConfig when the schedule has
// no positive interval. The loop runs until Stop is called or ctx is
// cancelled.
func (s *Scheduler) Start(ctx context.Context, cfg domain.ScanConfig) error {
	if cfg.Schedule.Interval <= 0 {
		return fmt.Errorf("schedule interval %s: %w", cfg.Schedule.Interval, domain.ErrInvalidConfig)
	}

	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return domain.ErrAlreadyRunning
	}
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.state = StateRunning
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	s.logger.Info("continuous scan starting",
		slog.String("mode", string(cfg.Mode)),
		slog.Duration("interval", cfg.Schedule.Interval),
	)

	go func() {
		defer close(done)
		defer s.settle()
		s.loop(runCtx, cfg)
	}()
	return nil
}

// Stop cancels the continuous loop and waits for it to exit, bounded by
// stopJoinTimeout and by ctx. It returns domain.ErrNotRunning when no loop is
// active. A timed-out join still leaves the scheduler stopping; the loop will
// settle to idle on its own.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateRunning {
		s.mu.Unlock()
		return domain.ErrNotRunning
	}
	s.state = StateStopping
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	cancel()

	timer := time.NewTimer(stopJoinTimeout)
	defer timer.Stop()
	select {
	case <-done:
		s.logger.Info("continuous scan stopped")
		return nil
	case <-timer.C:
		s.logger.Warn("scan loop did not stop in time, detaching")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Running reports whether the continuous loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateRunning
}

// Status returns the current lifecycle snapshot.
func (s *Scheduler) Status() SchedulerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := SchedulerStatus{
		State:        s.state,
		Passes:       s.passes,
		LastCounters: s.lastPass,
	}
	if !s.lastAt.IsZero() {
		at := s.lastAt
		st.LastPassAt = &at
	}
	return st
}

// RunSnapshot executes a single pass immediately, independent of the
// continuous loop.
func (s *Scheduler) RunSnapshot(ctx context.Context, cfg domain.ScanConfig) (domain.PassCounters, error) {
	counters, err := s.runPass(ctx, cfg)
	if err == nil {
		s.recordPass(counters)
	}
	return counters, err
}

func (s *Scheduler) loop(ctx context.Context, cfg domain.ScanConfig) {
	for {
		passStart := s.now()
		counters, err := s.runPass(ctx, cfg)
		if err != nil {
			// Only context cancellation reaches here.
			return
		}
		s.recordPass(counters)

		// The interval is pass-start to pass-start, so the time a pass took
		// comes out of the sleep. A pass longer than the interval re-arms
		// immediately.
		sleep := remainingWait(s.nextInterval(cfg), s.now().Sub(passStart))
		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func remainingWait(interval, elapsed time.Duration) time.Duration {
	if d := interval - elapsed; d > 0 {
		return d
	}
	return 0
}

// runPass wraps a pass in a recover so a panic in one pass never kills the
// loop.
func (s *Scheduler) runPass(ctx context.Context, cfg domain.ScanConfig) (counters domain.PassCounters, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scan pass panicked", slog.Any("panic", r))
			counters, err = domain.PassCounters{}, nil
		}
	}()
	return s.orch.RunPass(ctx, cfg)
}

// nextInterval picks the sleep before the next pass: the burst interval when
// burst mode is on and an in-window event commences within the burst window,
// otherwise the normal interval.
func (s *Scheduler) nextInterval(cfg domain.ScanConfig) time.Duration {
	if cfg.Mode != domain.ModeBurst || cfg.Schedule.BurstInterval <= 0 {
		return cfg.Schedule.Interval
	}
	nearest, ok := s.orch.NearestCommence()
	if !ok {
		return cfg.Schedule.Interval
	}
	until := nearest.Sub(s.now())
	if until <= cfg.Schedule.BurstWindow {
		s.logger.Debug("burst pacing active", slog.Duration("until_commence", until))
		return cfg.Schedule.BurstInterval
	}
	return cfg.Schedule.Interval
}

func (s *Scheduler) recordPass(counters domain.PassCounters) {
	s.mu.Lock()
	s.passes++
	s.lastAt = s.now().UTC()
	s.lastPass = counters
	s.mu.Unlock()
}

func (s *Scheduler) settle() {
	s.mu.Lock()
	s.state = StateIdle
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()
}
