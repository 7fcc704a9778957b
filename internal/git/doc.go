// Package git builds the git invocations used by the dc-scaffold CLI and
// interprets their results.
//
// All git operations are performed by invoking the git binary through an
// execx.Runner, rather than using a Git library like go-git. Cloning goes
// through a user-configurable clone command, so it has to behave exactly
// like the CLI the user already has configured (credentials, SSH agent,
// proxies).
//
// Clone failures are classified from git's exit status and stderr. Git
// exits 128 for fatal errors and offers no structured signal for a missing
// ref, so ClassifyClone falls back to matching the end of the error text.
package git
