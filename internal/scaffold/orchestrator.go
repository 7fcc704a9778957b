package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/shinji-kodama/dc-scaffold/internal/config"
	"github.com/shinji-kodama/dc-scaffold/internal/execx"
	"github.com/shinji-kodama/dc-scaffold/internal/model"
)

// Orchestrator runs the stack operations for one working directory.
// It is not safe for concurrent use; every operation runs its commands
// one after another.
type Orchestrator struct {
	cfg    config.Config
	runner execx.Runner
	log    *log.Logger

	// dryRun skips every filesystem change the operations would make.
	// Pair it with an execx.DryRunner so commands are printed instead.
	dryRun bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger used for progress messages.
func WithLogger(l *log.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

// WithStdio sets the streams handed to child processes that talk to the
// user (logs, shells, compose output). Nil values keep the defaults.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(o *Orchestrator) {
		if stdin != nil {
			o.stdin = stdin
		}
		if stdout != nil {
			o.stdout = stdout
		}
		if stderr != nil {
			o.stderr = stderr
		}
	}
}

// WithDryRun makes the orchestrator leave the filesystem untouched:
// directories are not removed and no file is created, truncated or backed
// up. Each skipped change is logged as "would ...". Read-only git queries
// still run for real.
func WithDryRun(dryRun bool) Option {
	return func(o *Orchestrator) {
		o.dryRun = dryRun
	}
}

// New resolves cfg and returns an Orchestrator bound to it. The resolved
// configuration is held by value and never changes afterwards.
func New(cfg config.Config, runner execx.Runner, opts ...Option) (*Orchestrator, error) {
	resolved, err := cfg.Resolve()
	if err != nil {
		return nil, model.NewInvalidArgumentError("invalid configuration", err)
	}
	if runner == nil {
		runner = execx.NewExecRunner()
	}

	o := &Orchestrator{
		cfg:    resolved,
		runner: runner,
		log:    log.New(os.Stderr),
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Config returns the resolved configuration.
func (o *Orchestrator) Config() config.Config {
	return o.cfg
}

// dockerFamily prefixes argv with the configured DockerUser and binds the
// command to the working directory.
func (o *Orchestrator) dockerFamily(argv []string) execx.Command {
	full := append(config.Fields(o.cfg.DockerUser), argv...)
	return execx.Command{Name: full[0], Args: full[1:], Dir: o.cfg.WorkingDir}
}

// composeCmd builds `[<user>] <compose> <args...>`.
func (o *Orchestrator) composeCmd(args ...string) execx.Command {
	compose := config.Fields(o.cfg.ComposeCommand)
	if len(compose) == 0 {
		compose = config.Fields(config.DefaultComposeCommand)
	}
	return o.dockerFamily(append(compose, args...))
}

// dockerCmd builds `[<user>] docker <args...>`.
func (o *Orchestrator) dockerCmd(args ...string) execx.Command {
	return o.dockerFamily(append([]string{"docker"}, args...))
}

// execArgs builds the `exec` arguments for an interactive command inside
// container. A pseudo-terminal is only requested when the caller has one.
func (o *Orchestrator) execArgs(container string, command ...string) []string {
	flag := "-i"
	if o.cfg.TTY {
		flag = "-it"
	}
	return append([]string{"exec", flag, container}, command...)
}

// console attaches the user's output streams to cmd.
func (o *Orchestrator) console(cmd execx.Command) execx.Command {
	cmd.Stdout = o.stdout
	cmd.Stderr = o.stderr
	return cmd
}

// interactive attaches all three user streams to cmd without buffering.
func (o *Orchestrator) interactive(cmd execx.Command) execx.Command {
	cmd = o.console(cmd)
	cmd.Stdin = o.stdin
	cmd.NoCapture = true
	return cmd
}

// hostPath resolves a user-supplied file path against the working directory.
func (o *Orchestrator) hostPath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(o.cfg.WorkingDir, p)
}

// run executes cmd and turns a start failure or non-zero exit into an error.
func (o *Orchestrator) run(ctx context.Context, cmd execx.Command) (execx.Result, error) {
	o.log.Debug("running command", "cmd", cmd.String())

	res, err := o.runner.Run(ctx, cmd)
	if err != nil {
		return res, err
	}
	if !res.Success() {
		return res, fmt.Errorf("%w: %s exited with status %d", model.ErrCommandFailed, cmd.String(), res.Code)
	}
	return res, nil
}

// runOne executes a single command and wraps any failure as an
// environment error described by what.
func (o *Orchestrator) runOne(ctx context.Context, what string, cmd execx.Command) error {
	if _, err := o.run(ctx, cmd); err != nil {
		return model.NewEnvironmentError(what, err)
	}
	return nil
}

// runSequence executes every command in order even when an earlier one
// fails. Failures are joined into one environment error at the end.
func (o *Orchestrator) runSequence(ctx context.Context, what string, cmds ...execx.Command) error {
	var errs []error
	for _, cmd := range cmds {
		if _, err := o.run(ctx, cmd); err != nil {
			o.log.Warn("step failed, continuing", "cmd", cmd.String(), "err", err)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return model.NewEnvironmentError(what, errors.Join(errs...))
	}
	return nil
}
