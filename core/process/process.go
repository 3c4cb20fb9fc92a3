package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Spec describes how to launch a program.
type Spec struct {
	// Name identifies the process in logs (e.g. "steamcmd", "kf2").
	Name string
	// Path is the executable.
	Path string
	// Args are passed after the executable.
	Args []string
	// Dir is the working directory; empty means the current one.
	Dir string
}

// String renders the command line for logging.
func (s Spec) String() string {
	return strings.TrimSpace(s.Path + " " + strings.Join(s.Args, " "))
}

// Handle controls one launched process.
type Handle interface {
	// Name returns the Spec name.
	Name() string
	// PID returns the operating system process id.
	PID() int
	// Poll reports whether the process has exited, and its exit code if so.
	// It never blocks.
	Poll() (code int, exited bool)
	// Terminate asks the process to stop. Calling it on an exited process
	// is a no-op.
	Terminate() error
	// Wait blocks until the process exits.
	Wait() (int, error)
}

// Launcher starts processes.
type Launcher interface {
	Start(ctx context.Context, spec Spec) (Handle, error)
}

// ExecLauncher launches processes with os/exec.
type ExecLauncher struct {
	logger *zap.Logger
	stdout io.Writer
	stderr io.Writer
}

// NewExecLauncher creates a launcher whose children inherit the current
// stdout and stderr.
func NewExecLauncher(logger *zap.Logger) *ExecLauncher {
	return &ExecLauncher{logger: logger, stdout: os.Stdout, stderr: os.Stderr}
}

// Start launches spec. The context only bounds the launch itself; the
// child keeps running after ctx is canceled until Terminate is called.
func (l *ExecLauncher) Start(ctx context.Context, spec Spec) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cmd := exec.Command(spec.Path, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Stdout = l.stdout
	cmd.Stderr = l.stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", spec.Name, err)
	}

	h := &execHandle{name: spec.Name, cmd: cmd, done: make(chan struct{})}
	go h.reap()

	l.logger.Info("Process started",
		zap.String("name", spec.Name),
		zap.Int("pid", cmd.Process.Pid),
		zap.String("command", spec.String()),
	)
	return h, nil
}

type execHandle struct {
	name string
	cmd  *exec.Cmd
	done chan struct{}

	mu      sync.Mutex
	code    int
	waitErr error
}

func (h *execHandle) reap() {
	err := h.cmd.Wait()

	h.mu.Lock()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		h.code = 0
	case errors.As(err, &exitErr):
		h.code = exitErr.ExitCode()
	default:
		h.code = -1
		h.waitErr = err
	}
	h.mu.Unlock()

	close(h.done)
}

func (h *execHandle) Name() string { return h.name }

func (h *execHandle) PID() int { return h.cmd.Process.Pid }

func (h *execHandle) Poll() (int, bool) {
	select {
	case <-h.done:
		h.mu.Lock()
		defer h.mu.Unlock()
		return h.code, true
	default:
		return 0, false
	}
}

func (h *execHandle) Terminate() error {
	if _, exited := h.Poll(); exited {
		return nil
	}
	if err := terminate(h.cmd.Process); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("failed to terminate %s: %w", h.name, err)
	}
	return nil
}

func (h *execHandle) Wait() (int, error) {
	<-h.done
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.code, h.waitErr
}
