package scaffold

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/dc-scaffold/internal/execx"
)

// TestStreamLogs_TeesToFile verifies that log output reaches both the
// console and the output file.
func TestStreamLogs_TeesToFile(t *testing.T) {
	env := newTestEnv(t, nil)
	env.runner.respond = func(execx.Command) (execx.Result, error) {
		return execx.Result{Stdout: "backend_1 | ready\n"}, nil
	}

	require.NoError(t, env.orch.StreamLogs(context.Background(), "backend", "out.log", true))

	assert.Equal(t, []string{"docker-compose logs -f backend"}, env.runner.lines())
	assert.Equal(t, "backend_1 | ready\n", env.stdout.String())

	data, err := os.ReadFile(filepath.Join(env.wd, "out.log"))
	require.NoError(t, err)
	assert.Equal(t, "backend_1 | ready\n", string(data))
}

// TestStreamLogs_NoFollow verifies the command without -f or a service.
func TestStreamLogs_NoFollow(t *testing.T) {
	env := newTestEnv(t, nil)

	require.NoError(t, env.orch.StreamLogs(context.Background(), "", "", false))
	assert.Equal(t, []string{"docker-compose logs"}, env.runner.lines())
}

// TestStreamLogs_CancelledFollow verifies that interrupting a followed log
// stream is not an error.
func TestStreamLogs_CancelledFollow(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	env.runner.respond = func(execx.Command) (execx.Result, error) {
		cancel()
		return execx.Result{Code: 130}, nil
	}

	assert.NoError(t, env.orch.StreamLogs(ctx, "frontend", "", true))
}

// TestStreamLogs_Failure verifies that a failing logs command without
// cancellation is reported.
func TestStreamLogs_Failure(t *testing.T) {
	env := newTestEnv(t, nil)
	env.runner.respond = func(execx.Command) (execx.Result, error) {
		return execx.Result{Code: 1}, nil
	}

	assert.Error(t, env.orch.StreamLogs(context.Background(), "nope", "", true))
}
