package scaffold

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/dc-scaffold/internal/execx"
	"github.com/shinji-kodama/dc-scaffold/internal/model"
)

// TestCheckDockerAvailable verifies how the docker ps result is judged.
func TestCheckDockerAvailable(t *testing.T) {
	tests := []struct {
		name    string
		res     execx.Result
		err     error
		running bool
	}{
		{
			name:    "containers listed",
			res:     execx.Result{Stdout: "CONTAINER ID   IMAGE\n"},
			running: true,
		},
		{
			name:    "empty listing",
			res:     execx.Result{},
			running: true,
		},
		{
			name: "daemon down",
			res:  execx.Result{Code: 1, Stderr: "Cannot connect to the Docker daemon at unix:///var/run/docker.sock."},
		},
		{
			name: "stderr wins over stdout",
			res:  execx.Result{Stdout: "CONTAINER ID   IMAGE\n", Stderr: "WARNING: something is off"},
		},
		{
			name: "silent non-zero exit",
			res:  execx.Result{Code: 1},
		},
		{
			name: "docker missing",
			res:  execx.Result{Code: 1},
			err:  errors.New(`exec: "docker": executable file not found in $PATH`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			env.runner.respond = func(execx.Command) (execx.Result, error) {
				return tt.res, tt.err
			}

			err := env.orch.CheckDockerAvailable(context.Background())
			assert.Equal(t, []string{"docker ps"}, env.runner.lines())

			if tt.running {
				require.NoError(t, err)
				assert.Contains(t, env.logs.String(), "Docker is running.")
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrDockerNotRunning)
			assert.Equal(t, model.KindEnvironment, model.KindOf(err))
			assert.NotContains(t, env.logs.String(), "Docker is running.")
		})
	}
}
