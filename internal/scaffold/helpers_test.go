package scaffold

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/dc-scaffold/internal/config"
	"github.com/shinji-kodama/dc-scaffold/internal/execx"
)

// fakeRunner records every command and answers with canned results.
// Canned output is written to the command's writers the way ExecRunner
// tees it.
type fakeRunner struct {
	commands []execx.Command
	respond  func(cmd execx.Command) (execx.Result, error)
}

func (f *fakeRunner) Run(_ context.Context, cmd execx.Command) (execx.Result, error) {
	f.commands = append(f.commands, cmd)
	if f.respond == nil {
		return execx.Result{}, nil
	}

	res, err := f.respond(cmd)
	if cmd.Stdout != nil && res.Stdout != "" {
		_, _ = io.WriteString(cmd.Stdout, res.Stdout)
	}
	if cmd.Stderr != nil && res.Stderr != "" {
		_, _ = io.WriteString(cmd.Stderr, res.Stderr)
	}
	return res, err
}

// lines returns the recorded commands as typed command lines.
func (f *fakeRunner) lines() []string {
	out := make([]string, 0, len(f.commands))
	for _, c := range f.commands {
		out = append(out, c.String())
	}
	return out
}

// testEnv bundles an orchestrator with everything a test inspects.
type testEnv struct {
	orch   *Orchestrator
	runner *fakeRunner
	wd     string
	logs   *bytes.Buffer
	stdout *bytes.Buffer
}

// newTestEnv creates an orchestrator for a project named "acme" in a
// temporary directory. mutate may adjust the configuration first.
func newTestEnv(t *testing.T, mutate func(*config.Config)) *testEnv {
	t.Helper()

	wd := filepath.Join(t.TempDir(), "acme")
	require.NoError(t, os.MkdirAll(wd, 0o755))

	cfg := config.Config{
		WorkingDir:   wd,
		RepoBase:     "git@example.com:acme/",
		FrontendRepo: "web.git",
		BackendRepo:  "api.git",
		TTY:          true,
	}
	if mutate != nil {
		mutate(&cfg)
	}

	env := &testEnv{
		runner: &fakeRunner{},
		wd:     wd,
		logs:   &bytes.Buffer{},
		stdout: &bytes.Buffer{},
	}

	orch, err := New(cfg, env.runner,
		WithLogger(log.New(env.logs)),
		WithStdio(bytes.NewBufferString(""), env.stdout, io.Discard),
	)
	require.NoError(t, err)
	env.orch = orch
	return env
}

// mkdir creates a directory below the working directory.
func (e *testEnv) mkdir(t *testing.T, name string) string {
	t.Helper()
	p := filepath.Join(e.wd, name)
	require.NoError(t, os.MkdirAll(p, 0o755))
	return p
}
