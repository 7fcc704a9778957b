package git

import (
	"strings"

	"github.com/shinji-kodama/dc-scaffold/internal/execx"
)

// ExitFatal is the exit status git uses for fatal errors (missing ref,
// unreachable remote, authentication failure).
const ExitFatal = 128

// refNotFoundSuffix ends git's stderr when `clone -b <ref>` names a branch
// or tag that the remote does not have:
//
//	fatal: Remote branch nope not found in upstream origin
const refNotFoundSuffix = "not found in upstream origin"

// CloneOutcome classifies the result of a clone command.
type CloneOutcome int

const (
	// CloneOK means the clone succeeded.
	CloneOK CloneOutcome = iota

	// CloneRefNotFound means the requested branch or tag does not exist
	// upstream.
	CloneRefNotFound

	// CloneFatal means git exited 128 for any other reason, typically no
	// network or bad credentials.
	CloneFatal

	// CloneFailed means a non-zero exit other than 128, e.g. from a custom
	// clone command.
	CloneFailed
)

// String returns a short label for the outcome.
func (o CloneOutcome) String() string {
	switch o {
	case CloneOK:
		return "ok"
	case CloneRefNotFound:
		return "ref-not-found"
	case CloneFatal:
		return "fatal"
	default:
		return "failed"
	}
}

// CloneCommand builds `<cloneCmd...> [-b <ref>] <url> <dir>`.
//
// cloneCmd is the configured clone invocation already split into fields,
// e.g. ["git", "clone"] or ["git", "clone", "--depth", "1"]. When ref is
// empty the remote's default branch is cloned.
func CloneCommand(cloneCmd []string, ref, url, dir string) execx.Command {
	if len(cloneCmd) == 0 {
		cloneCmd = []string{"git", "clone"}
	}

	args := make([]string, 0, len(cloneCmd)+3)
	args = append(args, cloneCmd[1:]...)
	if ref != "" {
		args = append(args, "-b", ref)
	}
	args = append(args, url, dir)

	return execx.Command{Name: cloneCmd[0], Args: args}
}

// EnableCredentialCache returns the command that turns on git's plaintext
// credential store globally, so the second clone reuses the credentials
// typed for the first.
func EnableCredentialCache() execx.Command {
	return execx.Command{
		Name: "git",
		Args: []string{"config", "--global", "credential.helper", "store"},
	}
}

// DisableCredentialCache returns the command that removes the global
// credential helper again.
func DisableCredentialCache() execx.Command {
	return execx.Command{
		Name: "git",
		Args: []string{"config", "--global", "--unset", "credential.helper"},
	}
}

// IsRefNotFound reports whether git's stderr ends with the
// "not found in upstream origin" diagnostic.
func IsRefNotFound(stderr string) bool {
	return strings.HasSuffix(strings.TrimSpace(stderr), refNotFoundSuffix)
}

// ClassifyClone maps a clone result to a CloneOutcome.
func ClassifyClone(res execx.Result) CloneOutcome {
	switch {
	case res.Code == 0:
		return CloneOK
	case res.Code == ExitFatal && IsRefNotFound(res.Stderr):
		return CloneRefNotFound
	case res.Code == ExitFatal:
		return CloneFatal
	default:
		return CloneFailed
	}
}
