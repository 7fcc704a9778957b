package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shinji-kodama/dc-scaffold/internal/execx"
)

// Checkout describes the state of a cloned service directory.
type Checkout struct {
	// Path is the absolute path of the service directory.
	Path string `json:"path"`

	// Present is false when the directory does not exist.
	Present bool `json:"present"`

	// Ref is the checked-out branch name, or the tag/commit description
	// when HEAD is detached (as it is after cloning a tag).
	Ref string `json:"ref,omitempty"`
}

// Inspector queries service checkouts through the git CLI.
type Inspector struct {
	runner execx.Runner
}

// NewInspector creates an Inspector that runs git through runner.
func NewInspector(runner execx.Runner) *Inspector {
	return &Inspector{runner: runner}
}

// Inspect reports whether path exists and which ref it has checked out.
// A directory that exists but is not a git repository is reported as
// present with an empty Ref.
func (i *Inspector) Inspect(ctx context.Context, path string) (Checkout, error) {
	co := Checkout{Path: path}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return co, nil
		}
		return co, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return co, fmt.Errorf("%s is not a directory", path)
	}
	co.Present = true

	if _, err := os.Stat(filepath.Join(path, ".git")); err != nil {
		return co, nil
	}

	branch, err := i.runGit(ctx, path, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return co, err
	}
	if branch != "HEAD" {
		co.Ref = branch
		return co, nil
	}

	// Detached HEAD: prefer an exact tag, fall back to the short commit.
	if tag, err := i.runGit(ctx, path, "describe", "--tags", "--exact-match"); err == nil {
		co.Ref = tag
		return co, nil
	}
	sha, err := i.runGit(ctx, path, "rev-parse", "--short", "HEAD")
	if err != nil {
		return co, err
	}
	co.Ref = sha
	return co, nil
}

// runGit executes `git -C <repoPath> <args...>` and returns trimmed stdout.
// A non-zero exit becomes an error carrying git's stderr.
func (i *Inspector) runGit(ctx context.Context, repoPath string, args ...string) (string, error) {
	res, err := i.runner.Run(ctx, execx.Command{
		Name: "git",
		Args: append([]string{"-C", repoPath}, args...),
	})
	if err != nil {
		return "", err
	}
	if !res.Success() {
		message := fmt.Sprintf("git %s failed", strings.Join(args, " "))
		if stderr := strings.TrimSpace(res.Stderr); stderr != "" {
			message = fmt.Sprintf("%s: %s", message, stderr)
		}
		return "", fmt.Errorf("%s (exit %d)", message, res.Code)
	}
	return strings.TrimSpace(res.Stdout), nil
}
