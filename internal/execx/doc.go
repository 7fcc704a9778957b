// Package execx runs external commands for the dc-scaffold CLI.
//
// Commands are always an explicit executable plus an argument list; nothing
// is handed to a shell, so file names and refs need no quoting. The Runner
// interface is the seam the orchestrator depends on: ExecRunner runs real
// processes, DryRunner only prints them, and tests substitute a recording
// fake.
//
// A Result always carries the captured stdout and stderr, even when the
// command's output was also streamed to the caller's writers, so callers
// can classify failures by exit code and error text.
package execx
