package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Command describes one external process invocation.
type Command struct {
	// Name is the executable, resolved through PATH.
	Name string

	// Args are the arguments passed to the executable.
	Args []string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Stdin, Stdout and Stderr are optional streams. Output is also
	// captured into the Result unless NoCapture is set; a nil writer
	// means capture only.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// NoCapture skips buffering output into the Result. Use it for
	// long-running or large streams (log following, database dumps,
	// interactive shells) where only the writers should see the data.
	NoCapture bool
}

// String renders the command the way a user would type it.
func (c Command) String() string {
	return strings.Join(c.Argv(), " ")
}

// Argv returns the executable followed by its arguments.
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// Result is the outcome of a command that was started.
type Result struct {
	// Code is the process exit status.
	Code int

	// Stdout and Stderr hold everything the process wrote.
	Stdout string
	Stderr string
}

// Success reports whether the command exited with status 0.
func (r Result) Success() bool {
	return r.Code == 0
}

// Runner executes commands. Run blocks until the process exits.
//
// A non-zero exit status is not an error: it is reported in Result.Code.
// The error return is reserved for commands that could not run at all
// (missing executable, cancelled context before start, etc.).
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner runs commands as child processes via os/exec.
type ExecRunner struct{}

// NewExecRunner creates a Runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run starts the command, waits for it and returns its exit status with
// the captured output.
func (r *ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	// #nosec G204 -- argv is built from configuration, never through a shell
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdin = c.Stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = sink(&stdout, c.Stdout, c.NoCapture)
	cmd.Stderr = sink(&stderr, c.Stderr, c.NoCapture)

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.Code = exitErr.ExitCode()
		// A signal-terminated process reports -1; keep it non-zero.
		if res.Code < 0 && ctx.Err() != nil {
			res.Code = 130
		}
		return res, nil
	}

	res.Code = 1
	return res, fmt.Errorf("failed to run %s: %w", c.Name, err)
}

// sink picks the writer for one output stream: w alone when capture is
// off, buf alone when there is no caller writer, otherwise both.
func sink(buf *bytes.Buffer, w io.Writer, noCapture bool) io.Writer {
	switch {
	case noCapture:
		return w
	case w == nil:
		return buf
	default:
		return io.MultiWriter(w, buf)
	}
}

// DryRunner prints each command to Out prefixed with "+ " and reports
// success without executing anything.
type DryRunner struct {
	Out io.Writer
}

// Run prints the command and returns a successful Result.
func (r *DryRunner) Run(_ context.Context, c Command) (Result, error) {
	if r.Out != nil {
		line := "+ " + c.String()
		if c.Dir != "" {
			line += "  (in " + c.Dir + ")"
		}
		fmt.Fprintln(r.Out, line)
	}
	return Result{}, nil
}
