// Package cli implements the cobra-based CLI commands for dc-scaffold.
//
// Each command group (clone, stack, logs, shell, db, test, check) is
// defined in its own file within this package. This file defines the root
// command, the global flags, configuration resolution and the mapping from
// errors to process exit codes.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/dc-scaffold/internal/config"
	"github.com/shinji-kodama/dc-scaffold/internal/execx"
	"github.com/shinji-kodama/dc-scaffold/internal/model"
	"github.com/shinji-kodama/dc-scaffold/internal/scaffold"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput switches command output and errors to JSON.
	jsonOutput bool

	// verbose lowers the log level to debug, which prints every
	// external command before it runs.
	verbose bool

	// dryRun prints the external commands instead of running them.
	dryRun bool

	// configPath is an explicit config file. When empty, the working
	// directory is searched for one of config.FileNames.
	configPath string

	// flagConfig collects the configuration given on the command line.
	// Non-empty fields override the config file.
	flagConfig config.Config

	// errOut is where errors and logs are written. Tests replace it.
	errOut io.Writer = os.Stderr
)

// Build information, injected from the main package.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
//
// The root command itself does nothing; it carries the help text and the
// global flags shared by every subcommand.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dc-scaffold",
		Short: "Manage a frontend/backend docker-compose development stack",
		Long: `dc-scaffold clones a frontend and a backend repository next to a
docker-compose.yml and drives the resulting stack: start and stop it,
rebuild images, follow logs, open a backend shell, import or dump the
PostgreSQL database and run the test suites inside the containers.

The directory holding docker-compose.yml (--cwd, default: the current
directory) names the compose project. Settings can be kept in a
.dc-scaffold.yml or .dc-scaffold.json file in that directory.`,

		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	flags.BoolVar(&dryRun, "dry-run", false, "Print commands instead of running them")
	flags.StringVar(&configPath, "config", "", "Config file (default: .dc-scaffold.{yml,yaml,json} in --cwd)")

	flagConfig = config.Config{}
	flags.StringVar(&flagConfig.WorkingDir, "cwd", "", "Directory containing docker-compose.yml (default: current directory)")
	flags.StringVar(&flagConfig.DockerUser, "docker-user", "", `Prefix for docker commands, e.g. "sudo"`)
	flags.StringVar(&flagConfig.FrontendDir, "frontend-dir", "", "Frontend checkout directory (default: frontend)")
	flags.StringVar(&flagConfig.BackendDir, "backend-dir", "", "Backend checkout directory (default: backend)")
	flags.StringVar(&flagConfig.FrontendRepo, "frontend-repo", "", "Frontend repository, appended to --repo-base")
	flags.StringVar(&flagConfig.BackendRepo, "backend-repo", "", "Backend repository, appended to --repo-base")
	flags.StringVar(&flagConfig.RepoBase, "repo-base", "", `Repository URL prefix, e.g. "git@github.com:acme/"`)
	flags.StringVar(&flagConfig.CloneCommand, "clone-cmd", "", `Clone command (default: "git clone")`)
	flags.StringVar(&flagConfig.ComposeCommand, "compose-cmd", "", `Compose command (default: "docker-compose")`)

	rootCmd.AddCommand(NewCloneCommand())
	rootCmd.AddCommand(NewRemoveCommand())
	rootCmd.AddCommand(NewStartCommand())
	rootCmd.AddCommand(NewStopCommand())
	rootCmd.AddCommand(NewRestartCommand())
	rootCmd.AddCommand(NewStatusCommand())
	rootCmd.AddCommand(NewRebuildCommand())
	rootCmd.AddCommand(NewLogsCommand())
	rootCmd.AddCommand(NewShellCommand())
	rootCmd.AddCommand(NewDBCommand())
	rootCmd.AddCommand(NewTestCommand())
	rootCmd.AddCommand(NewCheckCommand())

	return rootCmd
}

// Execute runs the root command and exits with the code carried by the
// returned error. It is the only place the process terminates.
func Execute(rootCmd *cobra.Command) {
	ctx, stop := signalContext(context.Background())
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		message, underlying, code := describeError(err)
		printError(message, underlying)
		os.Exit(int(code))
	}
}

// describeError splits err into the message, detail and exit code to
// report. A *model.CLIError anywhere in the chain supplies its own code;
// anything else (e.g. a cobra usage error) exits with ExitGeneralError.
func describeError(err error) (string, error, model.ExitCode) {
	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Message, cliErr.Err, cliErr.Code
	}
	return err.Error(), nil, model.ExitGeneralError
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(message string, underlying error) {
	if jsonOutput {
		// stdout is reserved for successful command output, so the JSON
		// error object also goes to stderr.
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(errOut, string(data))
		return
	}

	if underlying != nil {
		fmt.Fprintf(errOut, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(errOut, "Error: %s\n", message)
	}
}

// newLogger creates the logger shared by the CLI and the orchestrator.
func newLogger(w io.Writer) *log.Logger {
	l := log.NewWithOptions(w, log.Options{Prefix: "dc-scaffold"})
	if verbose {
		l.SetLevel(log.DebugLevel)
	}
	return l
}

// VerboseLog prints a debug message when verbose mode is enabled.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		newLogger(errOut).Debugf(format, args...)
	}
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}

// resolveConfig merges defaults, the config file and the command-line
// flags, in increasing order of precedence. stdin decides whether docker
// exec gets a pseudo-terminal.
func resolveConfig(stdin io.Reader) (config.Config, error) {
	dir := flagConfig.WorkingDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return config.Config{}, model.WrapCLIError(model.ExitGeneralError, "failed to determine working directory", err)
		}
		dir = wd
	}

	path := configPath
	if path == "" {
		path = config.Find(dir)
	}

	cfg := config.Config{WorkingDir: dir}
	if path != "" {
		VerboseLog("Loading config file %s", path)
		fileCfg, err := config.LoadFile(path)
		if err != nil {
			return config.Config{}, model.NewInvalidArgumentError("invalid config file", err)
		}
		cfg = cfg.Merge(fileCfg)
	}
	cfg = cfg.Merge(flagConfig)

	cfg.TTY = isTerminal(stdin)

	resolved, err := cfg.Resolve()
	if err != nil {
		return config.Config{}, model.NewInvalidArgumentError("invalid configuration", err)
	}
	return resolved, nil
}

// isTerminal reports whether r is a file attached to a terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// newOrchestrator resolves the configuration and builds an orchestrator
// wired to cmd's streams.
//
// With --dry-run the commands are printed instead of being executed and
// the orchestrator makes no filesystem changes. The printed commands go to
// cmd's output, or to stderr with --json so stdout stays a single JSON
// document.
func newOrchestrator(cmd *cobra.Command) (*scaffold.Orchestrator, error) {
	// Step 1: Resolve defaults, config file and flags.
	cfg, err := resolveConfig(cmd.InOrStdin())
	if err != nil {
		return nil, err
	}
	VerboseLog("Project %q in %s", cfg.ProjectName(), cfg.WorkingDir)

	// Step 2: Pick the runner.
	var runner execx.Runner = execx.NewExecRunner()
	if dryRun {
		runner = &execx.DryRunner{Out: dryRunOutput(cmd)}
	}

	// Step 3: Build the orchestrator around it.
	return scaffold.New(cfg, runner,
		scaffold.WithDryRun(dryRun),
		scaffold.WithLogger(newLogger(errOut)),
		scaffold.WithStdio(cmd.InOrStdin(), cmd.OutOrStdout(), errOut),
	)
}

// dryRunOutput returns where --dry-run prints commands.
func dryRunOutput(cmd *cobra.Command) io.Writer {
	if IsJSONOutput() {
		return errOut
	}
	return cmd.OutOrStdout()
}

// writeJSON writes v to w as indented JSON.
func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to marshal JSON output", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
