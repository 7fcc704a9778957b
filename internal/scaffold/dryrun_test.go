package scaffold

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/dc-scaffold/internal/execx"
	"github.com/shinji-kodama/dc-scaffold/internal/model"
)

// newDryRunOrchestrator builds an orchestrator over env's configuration
// that prints commands to the returned buffer and changes no files.
func newDryRunOrchestrator(t *testing.T, env *testEnv) (*Orchestrator, *bytes.Buffer) {
	t.Helper()

	var printed bytes.Buffer
	orch, err := New(env.orch.Config(), &execx.DryRunner{Out: &printed},
		WithDryRun(true),
		WithLogger(log.New(env.logs)),
		WithStdio(nil, env.stdout, env.stdout),
	)
	require.NoError(t, err)
	return orch, &printed
}

// TestDryRun_RemoveKeepsCheckouts verifies that a dry-run removal only
// reports what it would delete.
func TestDryRun_RemoveKeepsCheckouts(t *testing.T) {
	env := newTestEnv(t, nil)
	frontend := env.mkdir(t, "frontend")
	require.NoError(t, os.WriteFile(filepath.Join(frontend, "wip.js"), []byte("// unsaved work"), 0o644))

	orch, printed := newDryRunOrchestrator(t, env)
	require.NoError(t, orch.RemoveServiceDirectories(context.Background()))

	assert.FileExists(t, filepath.Join(frontend, "wip.js"))
	assert.Equal(t, "+ docker-compose down  (in "+env.wd+")\n", printed.String())
	assert.Contains(t, env.logs.String(), "would remove directory")
	assert.Contains(t, env.logs.String(), "No folder to delete.")
}

// TestDryRun_DumpKeepsFile verifies that a dry-run dump neither truncates
// the target nor touches its backup.
func TestDryRun_DumpKeepsFile(t *testing.T) {
	env := newTestEnv(t, nil)
	target := filepath.Join(env.wd, "prod.sql")
	require.NoError(t, os.WriteFile(target, []byte("-- precious dump"), 0o644))
	require.NoError(t, os.WriteFile(target+".bak", []byte("-- older dump"), 0o644))

	orch, printed := newDryRunOrchestrator(t, env)
	require.NoError(t, orch.DumpDatabase(context.Background(), "prod.sql"))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "-- precious dump", string(data))

	bak, err := os.ReadFile(target + ".bak")
	require.NoError(t, err)
	assert.Equal(t, "-- older dump", string(bak))

	assert.Contains(t, printed.String(), "pg_dump -U postgres -O -x postgres")
	assert.Contains(t, env.logs.String(), "would back up existing dump")
}

// TestDryRun_LogsKeepOutputFile verifies that -o is not created or
// truncated in dry-run mode.
func TestDryRun_LogsKeepOutputFile(t *testing.T) {
	env := newTestEnv(t, nil)
	out := filepath.Join(env.wd, "app.log")
	require.NoError(t, os.WriteFile(out, []byte("yesterday"), 0o644))

	orch, _ := newDryRunOrchestrator(t, env)
	require.NoError(t, orch.StreamLogs(context.Background(), "backend", "app.log", false))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "yesterday", string(data))
	assert.Contains(t, env.logs.String(), "would write logs")
}

// TestDryRun_CheckoutsQueryGit verifies that checkout inspection reads
// the real repository and prints nothing in dry-run mode.
func TestDryRun_CheckoutsQueryGit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	env := newTestEnv(t, nil)
	frontend := env.mkdir(t, "frontend")
	gitIn := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", append([]string{
			"-c", "user.name=Test", "-c", "user.email=test@example.com",
		}, args...)...)
		cmd.Dir = frontend
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}
	gitIn("init")
	gitIn("checkout", "-b", "feature-x")
	gitIn("commit", "--allow-empty", "-m", "initial")

	orch, printed := newDryRunOrchestrator(t, env)
	got, err := orch.Checkouts(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, model.ServiceFrontend, got[0].Service)
	assert.Equal(t, "feature-x", got[0].Ref)
	assert.Empty(t, printed.String())
}
