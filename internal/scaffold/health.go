package scaffold

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shinji-kodama/dc-scaffold/internal/model"
)

// CheckDockerAvailable runs `docker ps` to see whether the daemon answers.
//
// Anything on stderr means Docker is not usable, whatever the exit status;
// so does a non-zero exit or a failure to start docker at all. The
// returned error wraps model.ErrDockerNotRunning.
func (o *Orchestrator) CheckDockerAvailable(ctx context.Context) error {
	cmd := o.dockerCmd("ps")

	res, err := o.runner.Run(ctx, cmd)
	if err != nil {
		return notRunning(err)
	}
	if stderr := strings.TrimSpace(res.Stderr); stderr != "" {
		return notRunning(errors.New(stderr))
	}
	if !res.Success() {
		return notRunning(fmt.Errorf("%s exited with status %d", cmd.String(), res.Code))
	}

	o.log.Info("Docker is running.")
	return nil
}

func notRunning(cause error) error {
	return model.NewEnvironmentError(
		"Docker is not running. Please start your docker",
		errors.Join(model.ErrDockerNotRunning, cause),
	)
}
