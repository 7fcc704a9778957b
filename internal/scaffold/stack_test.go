package scaffold

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/docker/docker/api/types/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/dc-scaffold/internal/docker"
	"github.com/shinji-kodama/dc-scaffold/internal/execx"
	"github.com/shinji-kodama/dc-scaffold/internal/model"
)

type stubLister struct {
	got container.ListOptions
}

func (s *stubLister) ContainerList(_ context.Context, options container.ListOptions) ([]container.Summary, error) {
	s.got = options
	return []container.Summary{{
		ID:     "abc",
		Names:  []string{"/acme_db_1"},
		State:  "running",
		Labels: map[string]string{docker.LabelComposeService: "db"},
	}}, nil
}

// TestProjectContainers verifies that the project name drives the label
// filter.
func TestProjectContainers(t *testing.T) {
	env := newTestEnv(t, nil)
	lister := &stubLister{}

	got, err := env.orch.ProjectContainers(context.Background(), lister)
	require.NoError(t, err)

	assert.Equal(t, []string{docker.LabelComposeProject + "=acme"}, lister.got.Filters.Get("label"))
	require.Len(t, got, 1)
	assert.Equal(t, "acme_db_1", got[0].ContainerName)
}

// TestCheckouts verifies that missing and cloned service directories are
// both reported.
func TestCheckouts(t *testing.T) {
	env := newTestEnv(t, nil)
	frontend := env.mkdir(t, "frontend")
	require.NoError(t, os.Mkdir(filepath.Join(frontend, ".git"), 0o755))

	env.runner.respond = func(execx.Command) (execx.Result, error) {
		return execx.Result{Stdout: "develop\n"}, nil
	}

	got, err := env.orch.Checkouts(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, model.ServiceFrontend, got[0].Service)
	assert.True(t, got[0].Present)
	assert.Equal(t, "develop", got[0].Ref)

	assert.Equal(t, model.ServiceBackend, got[1].Service)
	assert.False(t, got[1].Present)

	assert.Equal(t, []string{"git -C " + frontend + " rev-parse --abbrev-ref HEAD"}, env.runner.lines())
}
