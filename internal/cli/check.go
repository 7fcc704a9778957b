package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/dc-scaffold/internal/compose"
	"github.com/shinji-kodama/dc-scaffold/internal/config"
)

// checkResult is the JSON shape of `check --json`.
type checkResult struct {
	DockerRunning bool            `json:"dockerRunning"`
	Project       string          `json:"project"`
	WorkingDir    string          `json:"workingDir"`
	ComposeFile   string          `json:"composeFile,omitempty"`
	Issues        []compose.Issue `json:"issues"`
}

// NewCheckCommand creates the "check" command.
//
// It reports whether the Docker daemon answers `docker ps` and lists any
// mismatch between the compose file and the expected stack layout. Only a
// Docker failure makes the command fail; compose issues are warnings.
func NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that Docker is running and the compose file fits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := newOrchestrator(cmd)
			if err != nil {
				return err
			}
			cfg := orch.Config()

			// Step 1: Ask the daemon.
			checkErr := orch.CheckDockerAvailable(cmd.Context())

			// Step 2: Inspect the compose file.
			composeFile, issues := checkComposeFile(cfg)
			VerboseLog("Compose file %q, %d issue(s)", composeFile, len(issues))

			// Step 3: Report.
			if IsJSONOutput() {
				if issues == nil {
					issues = []compose.Issue{}
				}
				if err := writeJSON(cmd.OutOrStdout(), checkResult{
					DockerRunning: checkErr == nil,
					Project:       cfg.ProjectName(),
					WorkingDir:    cfg.WorkingDir,
					ComposeFile:   composeFile,
					Issues:        issues,
				}); err != nil {
					return err
				}
				return checkErr
			}

			printCheck(cmd.OutOrStdout(), checkErr == nil, composeFile, issues)
			return checkErr
		},
	}
}

// checkComposeFile finds, loads and validates the compose file in the
// working directory. A missing or unreadable file is itself an issue.
func checkComposeFile(cfg config.Config) (string, []compose.Issue) {
	path, err := compose.Find(cfg.WorkingDir)
	if err != nil {
		return "", []compose.Issue{{Field: "file", Message: err.Error()}}
	}

	f, err := compose.Load(path)
	if err != nil {
		return path, []compose.Issue{{Field: "file", Message: err.Error()}}
	}
	return path, compose.Validate(f, cfg)
}

// printCheck writes the human-readable check report.
func printCheck(w io.Writer, dockerOK bool, composeFile string, issues []compose.Issue) {
	if dockerOK {
		fmt.Fprintf(w, "%s Docker is running\n", color.GreenString("✔"))
	} else {
		fmt.Fprintf(w, "%s Docker is not running\n", color.RedString("✘"))
	}

	if len(issues) == 0 {
		fmt.Fprintf(w, "%s %s matches the expected services\n", color.GreenString("✔"), composeFile)
		return
	}
	for _, issue := range issues {
		fmt.Fprintf(w, "%s %s\n", color.YellowString("!"), issue)
	}
}
