package mocks

import (
	"context"
	"sync"

	"kf2-manager/core/process"

	"github.com/stretchr/testify/mock"
)

// Launcher is a mock implementation of process.Launcher.
type Launcher struct {
	mock.Mock
}

func (m *Launcher) Start(ctx context.Context, spec process.Spec) (process.Handle, error) {
	args := m.Called(ctx, spec)
	if h, ok := args.Get(0).(process.Handle); ok {
		return h, args.Error(1)
	}
	return nil, args.Error(1)
}

// Handle is a controllable process.Handle. It stays alive until Exit or
// Terminate is called.
type Handle struct {
	name string

	mu         sync.Mutex
	exited     bool
	code       int
	terminates int
	waits      int
	done       chan struct{}
}

// NewHandle returns a live fake process.
func NewHandle(name string) *Handle {
	return &Handle{name: name, done: make(chan struct{})}
}

// Exit makes the process exit on its own with code.
func (h *Handle) Exit(code int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.exitLocked(code)
}

func (h *Handle) exitLocked(code int) {
	if h.exited {
		return
	}
	h.exited = true
	h.code = code
	close(h.done)
}

func (h *Handle) Name() string { return h.name }

func (h *Handle) PID() int { return 4242 }

func (h *Handle) Poll() (int, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.code, h.exited
}

func (h *Handle) Terminate() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.terminates++
	h.exitLocked(-1)
	return nil
}

func (h *Handle) Wait() (int, error) {
	<-h.done
	h.mu.Lock()
	defer h.mu.Unlock()
	h.waits++
	return h.code, nil
}

// Terminates returns how many times Terminate was called.
func (h *Handle) Terminates() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.terminates
}

// Waits returns how many times Wait returned.
func (h *Handle) Waits() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.waits
}
