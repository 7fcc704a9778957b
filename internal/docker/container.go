// container.go lists the containers that belong to a docker-compose
// project. Compose labels every container it creates with the project and
// service name, so the project's containers can be found server-side with
// a label filter, including stopped ones.
package docker

import (
	"context"
	"sort"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"

	"github.com/shinji-kodama/dc-scaffold/internal/model"
)

// Labels docker-compose sets on the containers it creates.
const (
	// LabelComposeProject holds the compose project name, which defaults
	// to the base name of the directory containing docker-compose.yml.
	LabelComposeProject = "com.docker.compose.project"

	// LabelComposeService holds the service key from docker-compose.yml.
	LabelComposeService = "com.docker.compose.service"
)

// ContainerLister is the subset of the Docker SDK client used for listing.
// *client.Client satisfies it; tests substitute a fake.
type ContainerLister interface {
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
}

// ListProjectContainers returns every container (running or not) whose
// compose project label equals project, sorted by service then name.
func ListProjectContainers(ctx context.Context, lister ContainerLister, project string) ([]model.ContainerInfo, error) {
	filterArgs := filters.NewArgs(
		filters.Arg("label", LabelComposeProject+"="+project),
	)

	containers, err := lister.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filterArgs,
	})
	if err != nil {
		return nil, model.NewEnvironmentError("failed to list Docker containers", err)
	}

	result := make([]model.ContainerInfo, 0, len(containers))
	for _, c := range containers {
		result = append(result, containerToInfo(c))
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].ServiceName != result[j].ServiceName {
			return result[i].ServiceName < result[j].ServiceName
		}
		return result[i].ContainerName < result[j].ContainerName
	})

	return result, nil
}

// containerToInfo converts a Docker API container summary to the domain
// model. The API reports names with a leading "/", which is stripped.
func containerToInfo(c container.Summary) model.ContainerInfo {
	name := ""
	if len(c.Names) > 0 {
		name = strings.TrimPrefix(c.Names[0], "/")
	}

	return model.ContainerInfo{
		ContainerID:   c.ID,
		ContainerName: name,
		ServiceName:   c.Labels[LabelComposeService],
		Image:         c.Image,
		State:         string(c.State),
		Status:        c.Status,
	}
}

// RunningCount returns how many of containers are in the "running" state.
func RunningCount(containers []model.ContainerInfo) int {
	n := 0
	for _, c := range containers {
		if c.State == "running" {
			n++
		}
	}
	return n
}
