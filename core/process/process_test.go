//go:build !windows

package process

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestExecLauncher(t *testing.T) {
	launcher := NewExecLauncher(zap.NewNop())
	ctx := context.Background()

	t.Run("ExitCode", func(t *testing.T) {
		h, err := launcher.Start(ctx, Spec{Name: "exit3", Path: "sh", Args: []string{"-c", "exit 3"}})
		require.NoError(t, err)

		code, err := h.Wait()
		require.NoError(t, err)
		assert.Equal(t, 3, code)

		code, exited := h.Poll()
		assert.True(t, exited)
		assert.Equal(t, 3, code)
		assert.NoError(t, h.Terminate())
	})

	t.Run("TerminateRunning", func(t *testing.T) {
		h, err := launcher.Start(ctx, Spec{Name: "sleeper", Path: "sleep", Args: []string{"30"}})
		require.NoError(t, err)
		assert.Greater(t, h.PID(), 0)

		_, exited := h.Poll()
		assert.False(t, exited)

		require.NoError(t, h.Terminate())
		done := make(chan struct{})
		go func() {
			_, _ = h.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("process did not exit after Terminate")
		}

		_, exited = h.Poll()
		assert.True(t, exited)
		assert.NoError(t, h.Terminate())
	})

	t.Run("MissingExecutable", func(t *testing.T) {
		_, err := launcher.Start(ctx, Spec{Name: "missing", Path: "/nonexistent/KFServer"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to start missing")
	})

	t.Run("CanceledContext", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := launcher.Start(canceled, Spec{Name: "sleeper", Path: "sleep", Args: []string{"1"}})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestSpecString(t *testing.T) {
	s := Spec{Path: "steamcmd", Args: []string{"+login", "anonymous"}}
	assert.Equal(t, "steamcmd +login anonymous", s.String())
}
