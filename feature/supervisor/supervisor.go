package supervisor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"kf2-manager/core/clock"
	"kf2-manager/core/process"
	"kf2-manager/feature/approved"
	"kf2-manager/feature/cache"
	"kf2-manager/feature/history"
	"kf2-manager/feature/summary"
	"kf2-manager/feature/workshop"

	"go.uber.org/zap"
)

// ErrProcessExited is returned when a supervised process exits on its own.
var ErrProcessExited = errors.New("supervised process exited")

// Subscriptions stores the workshop subscription set.
type Subscriptions interface {
	Set(items []uint64, mode workshop.Mode) ([]uint64, error)
}

// SummaryRebuilder regenerates the custom map summaries.
type SummaryRebuilder interface {
	Rebuild(ctx context.Context) (summary.Result, error)
}

// CycleEditor rewrites the custom map cycle.
type CycleEditor interface {
	Rebuild(ctx context.Context, index int) (int, error)
}

// CacheReconciler removes unsubscribed workshop downloads.
type CacheReconciler interface {
	Reconcile(ctx context.Context, root string, ids []uint64) (cache.Result, error)
}

// Options wires a Supervisor to its collaborators.
type Options struct {
	Approved  approved.Source
	Workshop  Subscriptions
	Summaries SummaryRebuilder
	MapCycle  CycleEditor
	Cache     CacheReconciler
	Launcher  process.Launcher

	// Agent is the content update process (SteamCMD), started first.
	Agent process.Spec
	// Server is the dedicated server process.
	Server process.Spec
	// CacheDir is the workshop download cache.
	CacheDir string
	// MapCycleIndex is the cycle slot holding the custom maps.
	MapCycleIndex int

	// Clock defaults to the real clock.
	Clock clock.Clock
	// History defaults to history.Nop.
	History history.Recorder
	Logger  *zap.Logger
	// OnTransition, when set, is called synchronously on every state change.
	OnTransition func(from, to State)
}

// ProcessInfo describes a running supervised process.
type ProcessInfo struct {
	Name string `json:"name"`
	PID  int    `json:"pid"`
}

// Snapshot is a point-in-time view of the supervisor.
type Snapshot struct {
	State      State         `json:"state"`
	Since      time.Time     `json:"since"`
	Cycles     int           `json:"cycles"`
	Subscribed int           `json:"subscribed"`
	Processes  []ProcessInfo `json:"processes"`
	LastError  string        `json:"last_error,omitempty"`
}

// Supervisor owns the two server processes. Run must be called at most once.
type Supervisor struct {
	cfg    Config
	opts   Options
	clock  clock.Clock
	logger *zap.Logger

	mu   sync.Mutex
	snap Snapshot
}

// New creates a Supervisor in the Idle state.
func New(cfg Config, opts Options) *Supervisor {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.History == nil {
		opts.History = history.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Supervisor{
		cfg:    cfg,
		opts:   opts,
		clock:  opts.Clock,
		logger: opts.Logger,
		snap:   Snapshot{State: Idle, Since: opts.Clock.Now()},
	}
}

// State returns the current state.
func (s *Supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.State
}

// Snapshot returns a copy of the current status.
func (s *Supervisor) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snap
	snap.Processes = append([]ProcessInfo(nil), s.snap.Processes...)
	return snap
}

// Run executes cycles until a process exits, a step fails or ctx is
// canceled. It always returns a non-nil error and leaves no process running.
func (s *Supervisor) Run(ctx context.Context) error {
	for {
		rec := history.Cycle{StartedAt: s.clock.Now()}
		outcome, err := s.cycle(ctx, &rec)

		rec.EndedAt = s.clock.Now()
		rec.Outcome = outcome
		if err != nil {
			rec.Detail = err.Error()
		}
		if recErr := s.opts.History.Record(context.WithoutCancel(ctx), rec); recErr != nil {
			s.logger.Warn("Failed to record cycle", zap.Error(recErr))
		}

		s.mu.Lock()
		s.snap.Cycles++
		if err != nil {
			s.snap.LastError = err.Error()
		}
		s.mu.Unlock()

		if outcome != history.OutcomeRestarted {
			s.transition(Stopped)
			return err
		}
		s.transition(Idle)
	}
}

func (s *Supervisor) cycle(ctx context.Context, rec *history.Cycle) (history.Outcome, error) {
	s.transition(Syncing)
	subscribed, err := s.sync(ctx, rec)
	if err != nil {
		return failed(ctx, err)
	}

	s.transition(Prewarming)
	agent, server, err := s.launch(ctx)
	if err != nil {
		return failed(ctx, err)
	}
	select {
	case <-s.clock.After(s.cfg.Warmup):
	case <-ctx.Done():
		s.shutdown(agent, server)
		return history.OutcomeCancelled, ctx.Err()
	}

	s.transition(Stabilizing)
	s.shutdown(agent, server)

	res, err := s.opts.Summaries.Rebuild(ctx)
	if err != nil {
		return failed(ctx, fmt.Errorf("failed to rebuild map summaries: %w", err))
	}
	rec.Maps = len(res.Added)
	if _, err := s.opts.MapCycle.Rebuild(ctx, s.opts.MapCycleIndex); err != nil {
		return failed(ctx, fmt.Errorf("failed to rebuild map cycle: %w", err))
	}

	agent, server, err = s.launch(ctx)
	if err != nil {
		return failed(ctx, err)
	}
	s.transition(Running)
	s.logger.Info("Server running",
		zap.Int("subscribed", len(subscribed)),
		zap.Int("maps", rec.Maps),
		zap.Int("restart_hour", s.cfg.RestartHour),
	)

	return s.monitor(ctx, agent, server)
}

func failed(ctx context.Context, err error) (history.Outcome, error) {
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return history.OutcomeCancelled, err
	}
	return history.OutcomeFailed, err
}

// sync replaces the subscriptions with the approved list and drops cache
// directories of items no longer subscribed.
func (s *Supervisor) sync(ctx context.Context, rec *history.Cycle) ([]uint64, error) {
	ids, err := s.opts.Approved.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch approved items: %w", err)
	}

	subscribed, err := s.opts.Workshop.Set(ids, workshop.Replace)
	if err != nil {
		return nil, fmt.Errorf("failed to update subscriptions: %w", err)
	}
	rec.Subscribed = len(subscribed)

	s.mu.Lock()
	s.snap.Subscribed = len(subscribed)
	s.mu.Unlock()

	res, err := s.opts.Cache.Reconcile(ctx, s.opts.CacheDir, subscribed)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile cache: %w", err)
	}
	rec.CacheRemoved = len(res.Removed)
	rec.CacheFailures = len(res.Failures)
	if err := res.Err(); err != nil {
		s.logger.Warn("Some cache directories were not removed", zap.Error(err))
	}
	return subscribed, nil
}

// launch starts the agent, then the server. If the server fails to start
// the agent is stopped again.
func (s *Supervisor) launch(ctx context.Context) (process.Handle, process.Handle, error) {
	agent, err := s.opts.Launcher.Start(ctx, s.opts.Agent)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start %s: %w", s.opts.Agent.Name, err)
	}
	server, err := s.opts.Launcher.Start(ctx, s.opts.Server)
	if err != nil {
		s.shutdown(agent)
		return nil, nil, fmt.Errorf("failed to start %s: %w", s.opts.Server.Name, err)
	}

	s.mu.Lock()
	s.snap.Processes = []ProcessInfo{
		{Name: agent.Name(), PID: agent.PID()},
		{Name: server.Name(), PID: server.PID()},
	}
	s.mu.Unlock()
	return agent, server, nil
}

// shutdown terminates every handle, then waits for each to exit.
func (s *Supervisor) shutdown(handles ...process.Handle) {
	for _, h := range handles {
		if err := h.Terminate(); err != nil {
			s.logger.Warn("Failed to terminate process", zap.String("name", h.Name()), zap.Error(err))
		}
	}
	for _, h := range handles {
		code, err := h.Wait()
		if err != nil {
			s.logger.Warn("Failed to wait for process", zap.String("name", h.Name()), zap.Error(err))
			continue
		}
		s.logger.Debug("Process stopped", zap.String("name", h.Name()), zap.Int("code", code))
	}

	s.mu.Lock()
	s.snap.Processes = nil
	s.mu.Unlock()
}

func (s *Supervisor) monitor(ctx context.Context, agent, server process.Handle) (history.Outcome, error) {
	schedule := newRestartSchedule(s.cfg.RestartHour)
	var ticker *clock.Ticker
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	for {
		if err := ctx.Err(); err != nil {
			s.shutdown(agent, server)
			return history.OutcomeCancelled, err
		}

		for _, h := range []process.Handle{agent, server} {
			if code, exited := h.Poll(); exited {
				s.logger.Error("Process exited unexpectedly", zap.String("name", h.Name()), zap.Int("code", code))
				s.shutdown(agent, server)
				return history.OutcomeExited, fmt.Errorf("%w: %s exited with code %d", ErrProcessExited, h.Name(), code)
			}
		}

		if schedule.Observe(s.clock.Now()) {
			s.transition(Restarting)
			s.shutdown(agent, server)
			return history.OutcomeRestarted, nil
		}

		if ticker == nil {
			ticker = s.clock.NewTicker(s.cfg.PollInterval)
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
		}
	}
}

func (s *Supervisor) transition(to State) {
	s.mu.Lock()
	from := s.snap.State
	s.snap.State = to
	s.snap.Since = s.clock.Now()
	s.mu.Unlock()

	s.logger.Info("Supervisor state changed", zap.Stringer("from", from), zap.Stringer("to", to))
	if s.opts.OnTransition != nil {
		s.opts.OnTransition(from, to)
	}
}
