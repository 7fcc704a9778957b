package docker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/docker/docker/api/types/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/dc-scaffold/internal/model"
)

// fakeLister records the list options it receives and returns canned
// summaries, standing in for the Docker SDK client.
type fakeLister struct {
	containers []container.Summary
	err        error
	got        container.ListOptions
}

func (f *fakeLister) ContainerList(_ context.Context, options container.ListOptions) ([]container.Summary, error) {
	f.got = options
	return f.containers, f.err
}

// makeSummary builds a container summary labeled the way compose labels
// its containers.
func makeSummary(id, name, service, state string) container.Summary {
	return container.Summary{
		ID:     id,
		Names:  []string{"/" + name},
		Image:  "acme/" + service + ":latest",
		State:  state,
		Status: "Up 2 minutes",
		Labels: map[string]string{
			LabelComposeProject: "acme",
			LabelComposeService: service,
		},
	}
}

// TestListProjectContainers verifies filtering options, conversion and
// ordering of the listed containers.
func TestListProjectContainers(t *testing.T) {
	lister := &fakeLister{containers: []container.Summary{
		makeSummary("ccc", "acme_frontend_1", "frontend", "running"),
		makeSummary("aaa", "acme_backend_1", "backend", "exited"),
		makeSummary("bbb", "acme_db_1", "db", "running"),
	}}

	got, err := ListProjectContainers(context.Background(), lister, "acme")
	require.NoError(t, err)

	// All containers, including stopped ones, filtered by project label.
	assert.True(t, lister.got.All)
	assert.Equal(t, []string{LabelComposeProject + "=acme"}, lister.got.Filters.Get("label"))

	require.Len(t, got, 3)
	assert.Equal(t, "backend", got[0].ServiceName)
	assert.Equal(t, "db", got[1].ServiceName)
	assert.Equal(t, "frontend", got[2].ServiceName)

	assert.Equal(t, model.ContainerInfo{
		ContainerID:   "aaa",
		ContainerName: "acme_backend_1",
		ServiceName:   "backend",
		Image:         "acme/backend:latest",
		State:         "exited",
		Status:        "Up 2 minutes",
	}, got[0])

	assert.Equal(t, 2, RunningCount(got))
}

// TestListProjectContainers_Error verifies that SDK failures become
// environment errors.
func TestListProjectContainers_Error(t *testing.T) {
	lister := &fakeLister{err: errors.New("connection refused")}

	_, err := ListProjectContainers(context.Background(), lister, "acme")
	require.Error(t, err)
	assert.Equal(t, model.KindEnvironment, model.KindOf(err))
}

// TestContainerToInfo_NoNames verifies that a container without names
// converts with an empty name instead of panicking.
func TestContainerToInfo_NoNames(t *testing.T) {
	info := containerToInfo(container.Summary{ID: "abc", State: "created"})
	assert.Equal(t, "", info.ContainerName)
	assert.Equal(t, "created", info.State)
	assert.Equal(t, "", info.ServiceName)
}

// TestDetectUnixSocket verifies that the first existing path wins and that
// a missing socket is reported.
func TestDetectUnixSocket(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.sock")
	present := filepath.Join(dir, "docker.sock")
	require.NoError(t, os.WriteFile(present, nil, 0o600))

	host, err := detectUnixSocket([]string{missing, present})
	require.NoError(t, err)
	assert.Equal(t, "unix://"+present, host)

	_, err = detectUnixSocket([]string{missing})
	assert.ErrorContains(t, err, "Docker socket not found")
}
