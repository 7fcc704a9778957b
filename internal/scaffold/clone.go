package scaffold

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shinji-kodama/dc-scaffold/internal/config"
	"github.com/shinji-kodama/dc-scaffold/internal/execx"
	"github.com/shinji-kodama/dc-scaffold/internal/git"
	"github.com/shinji-kodama/dc-scaffold/internal/model"
)

// CloneRepositories clones the frontend and then the backend repository
// into their service directories.
//
// A directory that already exists is left alone. When both a branch and a
// tag are given for a service the branch wins. Unless SkipCredentialCache
// is set, git's global credential store is switched on for the pair of
// clones and switched off again on every return path.
//
// The first failing clone aborts the operation:
//   - ref missing upstream: user-input error wrapping model.ErrRefNotFound
//   - any other git failure: environment error wrapping model.ErrCloneFailed
func (o *Orchestrator) CloneRepositories(ctx context.Context, frontend, backend model.Ref) error {
	if !o.cfg.SkipCredentialCache {
		o.bestEffort(ctx, "enable credential cache", git.EnableCredentialCache())
		defer o.bestEffort(context.WithoutCancel(ctx), "disable credential cache", git.DisableCredentialCache())
	}

	targets := []struct {
		svc model.Service
		ref model.Ref
	}{
		{model.ServiceFrontend, frontend},
		{model.ServiceBackend, backend},
	}
	for _, t := range targets {
		if err := o.cloneService(ctx, t.svc, t.ref); err != nil {
			return err
		}
	}
	return nil
}

// cloneService clones one service repository unless its directory exists.
func (o *Orchestrator) cloneService(ctx context.Context, svc model.Service, ref model.Ref) error {
	if ref.IsAmbiguous() {
		o.log.Warn("both branch and tag given, using the branch",
			"service", svc, "branch", ref.Branch, "tag", ref.Tag)
	}

	path := o.cfg.ServicePath(svc)
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		o.log.Info("repository already cloned", "service", svc, "path", path)
		return nil
	}

	cmd := git.CloneCommand(
		config.Fields(o.cfg.CloneCommand),
		ref.Name(),
		o.cfg.RepoBase+o.cfg.ServiceRepo(svc),
		o.cfg.ServiceDir(svc),
	)
	cmd.Dir = o.cfg.WorkingDir
	cmd.Stdout = o.stdout
	cmd.Stderr = o.stderr

	o.log.Info("cloning repository", "service", svc, "cmd", cmd.String())

	res, err := o.runner.Run(ctx, cmd)
	if err != nil {
		return model.NewEnvironmentError(
			fmt.Sprintf("could not run the clone command for %s", svc),
			errors.Join(model.ErrCloneFailed, err),
		)
	}

	stderr := strings.TrimSpace(res.Stderr)
	switch git.ClassifyClone(res) {
	case git.CloneOK:
		return nil
	case git.CloneRefNotFound:
		return model.NewUserError(
			fmt.Sprintf("the %s branch/tag %q is not available in origin", svc, ref.Name()),
			model.ErrRefNotFound,
		)
	case git.CloneFatal:
		return model.NewEnvironmentError(
			fmt.Sprintf("cloning %s failed, you may have slow or no internet", svc),
			fmt.Errorf("%w: %s", model.ErrCloneFailed, stderr),
		)
	default:
		return model.NewEnvironmentError(
			fmt.Sprintf("cloning %s failed with exit status %d", svc, res.Code),
			fmt.Errorf("%w: %s", model.ErrCloneFailed, stderr),
		)
	}
}

// bestEffort runs a bookkeeping command whose failure is only logged.
func (o *Orchestrator) bestEffort(ctx context.Context, what string, cmd execx.Command) {
	if _, err := o.run(ctx, cmd); err != nil {
		o.log.Warn("could not "+what, "cmd", cmd.String(), "err", err)
	}
}
