// Package model defines the domain types and value objects for the
// dc-scaffold CLI.
//
// This package contains pure data structures with no external dependencies.
// The stack services (frontend, backend, db), the clone reference (Ref) and
// the container summaries returned by the Docker API all live here.
//
// The package also defines exit codes (ExitCode), the failure taxonomy
// (ErrorKind) and a custom error type (CLIError) that carries both, so that
// operations can return a tagged result and leave process termination to
// the outermost caller.
package model
