package supervisor

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"kf2-manager/core/clock"
	"kf2-manager/core/process"
	"kf2-manager/core/process/mocks"
	"kf2-manager/feature/approved"
	"kf2-manager/feature/cache"
	"kf2-manager/feature/history"
	"kf2-manager/feature/summary"
	"kf2-manager/feature/workshop"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	agentSpec  = process.Spec{Name: "steamcmd", Path: "steamcmd.exe", Args: []string{"+login", "anonymous"}}
	serverSpec = process.Spec{Name: "kf2", Path: "KFServer.exe", Args: []string{"kf-burningparis"}}
)

type fakeWorkshop struct {
	calls [][]uint64
	modes []workshop.Mode
	err   error
}

func (f *fakeWorkshop) Set(items []uint64, mode workshop.Mode) ([]uint64, error) {
	f.calls = append(f.calls, items)
	f.modes = append(f.modes, mode)
	if f.err != nil {
		return nil, f.err
	}
	out := slices.Clone(items)
	slices.Sort(out)
	return slices.Compact(out), nil
}

type fakeCache struct {
	roots []string
	ids   [][]uint64
	res   cache.Result
}

func (f *fakeCache) Reconcile(_ context.Context, root string, ids []uint64) (cache.Result, error) {
	f.roots = append(f.roots, root)
	f.ids = append(f.ids, ids)
	return f.res, nil
}

type fakeSummaries struct {
	calls int
	err   error
}

func (f *fakeSummaries) Rebuild(context.Context) (summary.Result, error) {
	f.calls++
	return summary.Result{Added: []string{"KF-A", "KF-B"}}, f.err
}

type fakeMapCycle struct {
	indexes []int
}

func (f *fakeMapCycle) Rebuild(_ context.Context, index int) (int, error) {
	f.indexes = append(f.indexes, index)
	return index, nil
}

type fakeHistory struct {
	mu     sync.Mutex
	cycles []history.Cycle
}

func (f *fakeHistory) Record(_ context.Context, c history.Cycle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cycles = append(f.cycles, c)
	return nil
}

func (f *fakeHistory) outcomes() []history.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []history.Outcome
	for _, c := range f.cycles {
		out = append(out, c.Outcome)
	}
	return out
}

type harness struct {
	t         *testing.T
	clock     *clock.FakeClock
	launcher  *mocks.Launcher
	approved  approved.Source
	workshop  *fakeWorkshop
	cache     *fakeCache
	summaries *fakeSummaries
	mapcycle  *fakeMapCycle
	history   *fakeHistory

	mu     sync.Mutex
	seen   []State
	states chan State
}

func newHarness(t *testing.T, start time.Time) *harness {
	return &harness{
		t:         t,
		clock:     clock.Fake(start),
		launcher:  new(mocks.Launcher),
		approved:  approved.Static{30, 10, 20},
		workshop:  &fakeWorkshop{},
		cache:     &fakeCache{res: cache.Result{Removed: []string{"99"}}},
		summaries: &fakeSummaries{},
		mapcycle:  &fakeMapCycle{},
		history:   &fakeHistory{},
		states:    make(chan State, 128),
	}
}

func (h *harness) supervisor(cfg Config) *Supervisor {
	return New(cfg, Options{
		Approved:      h.approved,
		Workshop:      h.workshop,
		Summaries:     h.summaries,
		MapCycle:      h.mapcycle,
		Cache:         h.cache,
		Launcher:      h.launcher,
		Agent:         agentSpec,
		Server:        serverSpec,
		CacheDir:      "/srv/kf2/KFGame/Cache",
		MapCycleIndex: 1,
		Clock:         h.clock,
		History:       h.history,
		Logger:        zap.NewNop(),
		OnTransition: func(_, to State) {
			h.mu.Lock()
			h.seen = append(h.seen, to)
			h.mu.Unlock()
			h.states <- to
		},
	})
}

// expectLaunch registers one agent and one server start.
func (h *harness) expectLaunch() (agent, server *mocks.Handle) {
	agent = mocks.NewHandle(agentSpec.Name)
	server = mocks.NewHandle(serverSpec.Name)
	h.launcher.On("Start", mock.Anything, agentSpec).Return(agent, nil).Once()
	h.launcher.On("Start", mock.Anything, serverSpec).Return(server, nil).Once()
	return agent, server
}

func (h *harness) waitFor(want State) {
	h.t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case got := <-h.states:
			if got == want {
				return
			}
		case <-timeout:
			h.t.Fatalf("timed out waiting for state %s", want)
		}
	}
}

func (h *harness) seenStates() []State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.seen)
}

func run(ctx context.Context, s *Supervisor) <-chan error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()
	return errCh
}

func result(t *testing.T, errCh <-chan error) error {
	t.Helper()
	select {
	case err := <-errCh:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("supervisor did not return")
		return nil
	}
}

var testConfig = Config{RestartHour: 5, Warmup: 5 * time.Minute, PollInterval: time.Second}

func TestRunAgentExit(t *testing.T) {
	h := newHarness(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	warmAgent, warmServer := h.expectLaunch()
	agent, server := h.expectLaunch()
	sup := h.supervisor(testConfig)

	errCh := run(context.Background(), sup)

	h.waitFor(Prewarming)
	h.clock.WaitForTimers(1)
	h.clock.Advance(5 * time.Minute)

	h.waitFor(Running)
	h.clock.WaitForTimers(1)

	snap := sup.Snapshot()
	assert.Equal(t, Running, snap.State)
	assert.Equal(t, 3, snap.Subscribed)
	assert.Equal(t, []ProcessInfo{{Name: "steamcmd", PID: 4242}, {Name: "kf2", PID: 4242}}, snap.Processes)

	agent.Exit(3)
	h.clock.Advance(time.Second)

	err := result(t, errCh)
	require.ErrorIs(t, err, ErrProcessExited)
	assert.Contains(t, err.Error(), "steamcmd exited with code 3")

	assert.Equal(t, 1, server.Terminates())
	assert.Equal(t, 1, server.Waits())
	assert.Equal(t, 1, agent.Waits())
	for _, p := range []*mocks.Handle{warmAgent, warmServer} {
		assert.Equal(t, 1, p.Terminates(), p.Name())
		assert.Equal(t, 1, p.Waits(), p.Name())
	}
	h.launcher.AssertNumberOfCalls(t, "Start", 4)

	assert.Equal(t, Stopped, sup.State())
	assert.Empty(t, sup.Snapshot().Processes)
	assert.Equal(t, []State{Syncing, Prewarming, Stabilizing, Running, Stopped}, h.seenStates())

	assert.Equal(t, [][]uint64{{10, 20, 30}}, h.workshop.calls)
	assert.Equal(t, []workshop.Mode{workshop.Replace}, h.workshop.modes)
	assert.Equal(t, []string{"/srv/kf2/KFGame/Cache"}, h.cache.roots)
	assert.Equal(t, [][]uint64{{10, 20, 30}}, h.cache.ids)
	assert.Equal(t, 1, h.summaries.calls)
	assert.Equal(t, []int{1}, h.mapcycle.indexes)

	require.Len(t, h.history.cycles, 1)
	rec := h.history.cycles[0]
	assert.Equal(t, history.OutcomeExited, rec.Outcome)
	assert.Equal(t, 3, rec.Subscribed)
	assert.Equal(t, 1, rec.CacheRemoved)
	assert.Equal(t, 2, rec.Maps)
	assert.Contains(t, rec.Detail, "steamcmd exited")
}

func TestRunServerExit(t *testing.T) {
	h := newHarness(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	h.expectLaunch()
	agent, server := h.expectLaunch()
	sup := h.supervisor(testConfig)

	errCh := run(context.Background(), sup)

	h.waitFor(Prewarming)
	h.clock.WaitForTimers(1)
	h.clock.Advance(5 * time.Minute)
	h.waitFor(Running)
	h.clock.WaitForTimers(1)

	server.Exit(0)
	h.clock.Advance(time.Second)

	err := result(t, errCh)
	require.ErrorIs(t, err, ErrProcessExited)
	assert.Contains(t, err.Error(), "kf2 exited with code 0")
	assert.Equal(t, 1, agent.Terminates())
	assert.Equal(t, 1, agent.Waits())
}

func TestRunDailyRestart(t *testing.T) {
	h := newHarness(t, time.Date(2024, 3, 1, 4, 0, 0, 0, time.UTC))
	warmAgent, warmServer := h.expectLaunch()
	agent, server := h.expectLaunch()
	h.expectLaunch()
	h.expectLaunch()
	sup := h.supervisor(testConfig)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := run(ctx, sup)

	h.waitFor(Prewarming)
	h.clock.WaitForTimers(1)
	h.clock.Advance(5 * time.Minute)

	h.waitFor(Running)
	h.clock.WaitForTimers(1)
	h.clock.Advance(55 * time.Minute)

	h.waitFor(Restarting)
	h.waitFor(Prewarming)
	for _, p := range []*mocks.Handle{warmAgent, warmServer, agent, server} {
		assert.Equal(t, 1, p.Terminates(), p.Name())
		assert.Equal(t, 1, p.Waits(), p.Name())
	}

	h.clock.WaitForTimers(1)
	h.clock.Advance(5 * time.Minute)

	// The second cycle starts inside the restart hour and must not restart.
	h.waitFor(Running)
	h.clock.WaitForTimers(1)
	h.clock.Advance(time.Second)
	assert.Equal(t, Running, sup.State())

	cancel()
	err := result(t, errCh)
	assert.ErrorIs(t, err, context.Canceled)

	h.launcher.AssertNumberOfCalls(t, "Start", 8)
	assert.Equal(t, []State{
		Syncing, Prewarming, Stabilizing, Running, Restarting,
		Idle, Syncing, Prewarming, Stabilizing, Running, Stopped,
	}, h.seenStates())
	assert.Equal(t, []history.Outcome{history.OutcomeRestarted, history.OutcomeCancelled}, h.history.outcomes())
	assert.Len(t, h.workshop.calls, 2)
	assert.Equal(t, 2, sup.Snapshot().Cycles)
}

func TestRunCancelDuringWarmup(t *testing.T) {
	h := newHarness(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	agent, server := h.expectLaunch()
	sup := h.supervisor(testConfig)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := run(ctx, sup)

	h.waitFor(Prewarming)
	cancel()

	err := result(t, errCh)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, agent.Terminates())
	assert.Equal(t, 1, server.Terminates())
	assert.Equal(t, 0, h.summaries.calls)
	assert.Equal(t, Stopped, sup.State())
	assert.Equal(t, []history.Outcome{history.OutcomeCancelled}, h.history.outcomes())
}

func TestRunFetchFailure(t *testing.T) {
	h := newHarness(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	h.approved = approved.FileSource{Path: t.TempDir() + "/missing.csv", Column: 1}
	sup := h.supervisor(testConfig)

	err := sup.Run(context.Background())
	assert.ErrorContains(t, err, "failed to fetch approved items")
	assert.Equal(t, Stopped, sup.State())
	assert.Empty(t, h.workshop.calls)
	h.launcher.AssertNotCalled(t, "Start", mock.Anything, mock.Anything)
	assert.Equal(t, []history.Outcome{history.OutcomeFailed}, h.history.outcomes())
	assert.NotEmpty(t, sup.Snapshot().LastError)
}

func TestRunServerStartFailure(t *testing.T) {
	h := newHarness(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	agent := mocks.NewHandle(agentSpec.Name)
	h.launcher.On("Start", mock.Anything, agentSpec).Return(agent, nil).Once()
	h.launcher.On("Start", mock.Anything, serverSpec).Return(nil, errors.New("exec format error")).Once()
	sup := h.supervisor(testConfig)

	err := sup.Run(context.Background())
	assert.ErrorContains(t, err, "failed to start kf2")
	assert.Equal(t, 1, agent.Terminates())
	assert.Equal(t, 1, agent.Waits())
}

func TestRunRebuildFailure(t *testing.T) {
	h := newHarness(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	h.expectLaunch()
	h.summaries.err = errors.New("game ini missing")
	sup := h.supervisor(testConfig)

	errCh := run(context.Background(), sup)
	h.waitFor(Prewarming)
	h.clock.WaitForTimers(1)
	h.clock.Advance(5 * time.Minute)

	err := result(t, errCh)
	assert.ErrorContains(t, err, "failed to rebuild map summaries")
	assert.Empty(t, h.mapcycle.indexes)
	h.launcher.AssertNumberOfCalls(t, "Start", 2)
}

func TestRestartSchedule(t *testing.T) {
	at := func(day, hour, minute int) time.Time {
		return time.Date(2024, 3, day, hour, minute, 0, 0, time.UTC)
	}

	t.Run("FiresOnChange", func(t *testing.T) {
		s := newRestartSchedule(5)
		assert.False(t, s.Observe(at(1, 4, 0)))
		assert.False(t, s.Observe(at(1, 4, 59)))
		assert.True(t, s.Observe(at(1, 5, 0)))
		assert.False(t, s.Observe(at(1, 5, 1)))
	})

	t.Run("StartInsideRestartHour", func(t *testing.T) {
		s := newRestartSchedule(5)
		assert.False(t, s.Observe(at(1, 5, 10)))
		assert.False(t, s.Observe(at(1, 5, 59)))
		assert.False(t, s.Observe(at(1, 6, 0)))
		assert.False(t, s.Observe(at(2, 4, 59)))
		assert.True(t, s.Observe(at(2, 5, 0)))
	})

	t.Run("Midnight", func(t *testing.T) {
		s := newRestartSchedule(0)
		assert.False(t, s.Observe(at(1, 23, 59)))
		assert.True(t, s.Observe(at(2, 0, 0)))
	})
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "prewarming", Prewarming.String())
	assert.Equal(t, "unknown", State(42).String())

	text, err := Stopped.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "stopped", string(text))
}
