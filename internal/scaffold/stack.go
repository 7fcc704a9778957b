package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shinji-kodama/dc-scaffold/internal/config"
	"github.com/shinji-kodama/dc-scaffold/internal/docker"
	"github.com/shinji-kodama/dc-scaffold/internal/execx"
	"github.com/shinji-kodama/dc-scaffold/internal/git"
	"github.com/shinji-kodama/dc-scaffold/internal/model"
)

// Start brings the stack up in the background.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.log.Info("Starting the services...")
	return o.runOne(ctx, "failed to start the services", o.console(o.composeCmd("up", "-d")))
}

// Stop takes the stack down.
func (o *Orchestrator) Stop(ctx context.Context) error {
	o.log.Info("Stopping the services...")
	return o.runOne(ctx, "failed to stop the services", o.console(o.composeCmd("down")))
}

// Restart restarts the stack's containers in place.
func (o *Orchestrator) Restart(ctx context.Context) error {
	o.log.Info("Restarting the services...")
	return o.runOne(ctx, "failed to restart the services", o.console(o.composeCmd("restart")))
}

// Status prints compose's view of every container in the stack.
func (o *Orchestrator) Status(ctx context.Context) error {
	return o.runOne(ctx, "failed to query the services", o.console(o.composeCmd("ps", "-a")))
}

// RebuildAndRestart takes the stack down, rebuilds the images with
// buildFlags (e.g. --no-cache) and starts it again. All three steps run
// regardless of earlier failures.
func (o *Orchestrator) RebuildAndRestart(ctx context.Context, buildFlags []string) error {
	o.log.Info("Rebuilding the services...", "flags", buildFlags)

	build := append([]string{"build"}, buildFlags...)
	return o.runSequence(ctx, "rebuild did not complete cleanly",
		o.console(o.composeCmd("down")),
		o.console(o.composeCmd(build...)),
		o.console(o.composeCmd("up", "-d")),
	)
}

// StreamLogs prints the logs of app (all services when empty). With
// follow it keeps streaming until ctx is cancelled, which counts as a
// normal end. When outputFile is set the log is also written there.
func (o *Orchestrator) StreamLogs(ctx context.Context, app, outputFile string, follow bool) (err error) {
	args := []string{"logs"}
	if follow {
		args = append(args, "-f")
	}
	if app != "" {
		args = append(args, app)
	}

	cmd := o.console(o.composeCmd(args...))
	cmd.NoCapture = true

	switch {
	case outputFile == "":
	case o.dryRun:
		o.log.Info("would write logs", "file", o.hostPath(outputFile))
	default:
		target := o.hostPath(outputFile)
		f, ferr := os.Create(target)
		if ferr != nil {
			return model.NewEnvironmentError(fmt.Sprintf("failed to create %s", target), ferr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = model.NewEnvironmentError(fmt.Sprintf("failed to write %s", target), cerr)
			}
		}()
		cmd.Stdout = io.MultiWriter(o.stdout, f)
		o.log.Info("writing logs", "file", target)
	}

	if _, err := o.run(ctx, cmd); err != nil {
		if follow && errors.Is(ctx.Err(), context.Canceled) {
			return nil
		}
		return model.NewEnvironmentError("failed to read the logs", err)
	}
	return nil
}

// OpenInteractiveShell runs the configured backend shell inside the
// backend container, wired to the user's terminal.
func (o *Orchestrator) OpenInteractiveShell(ctx context.Context) error {
	backend := o.cfg.ContainerName(model.ServiceBackend)
	shell := config.Fields(o.cfg.BackendShell)

	cmd := o.interactive(o.dockerCmd(o.execArgs(backend, shell...)...))
	return o.runOne(ctx, "the backend shell exited with an error", cmd)
}

// ProjectContainers lists the stack's containers through the Docker API.
func (o *Orchestrator) ProjectContainers(ctx context.Context, lister docker.ContainerLister) ([]model.ContainerInfo, error) {
	return docker.ListProjectContainers(ctx, lister, o.cfg.ProjectName())
}

// ServiceCheckout pairs an application service with its checkout state.
type ServiceCheckout struct {
	Service model.Service `json:"service"`
	git.Checkout
}

// Checkouts reports which ref each application service has checked out.
// The git queries only read, so they run for real even in dry-run mode.
func (o *Orchestrator) Checkouts(ctx context.Context) ([]ServiceCheckout, error) {
	runner := o.runner
	if o.dryRun {
		runner = execx.NewExecRunner()
	}
	inspector := git.NewInspector(runner)

	var result []ServiceCheckout
	for _, svc := range []model.Service{model.ServiceFrontend, model.ServiceBackend} {
		co, err := inspector.Inspect(ctx, o.cfg.ServicePath(svc))
		if err != nil {
			return nil, model.NewEnvironmentError(fmt.Sprintf("failed to inspect the %s checkout", svc), err)
		}
		result = append(result, ServiceCheckout{Service: svc, Checkout: co})
	}
	return result, nil
}
