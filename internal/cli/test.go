package cli

import (
	"github.com/spf13/cobra"
)

// NewTestCommand creates the "test" command. The first argument selects
// the suite; the rest go to the test runner.
func NewTestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "test <frontend|backend> [runner args...]",
		Short: "Run a test suite inside its container",
		Long: `Run the frontend or backend test suite inside its container.
Arguments after the suite are passed to the test runner; put them
after "--" when they start with a dash.

Examples:
  dc-scaffold test backend
  dc-scaffold test frontend -- --watch`,
		Args:      cobra.MinimumNArgs(1),
		ValidArgs: []string{"frontend", "backend"},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Step 1: Resolve the configuration.
			orch, err := newOrchestrator(cmd)
			if err != nil {
				return err
			}

			// Step 2: Run the suite. The section is validated by the
			// orchestrator so an unknown one gets the invalid-argument kind.
			return orch.RunTestSuite(cmd.Context(), args)
		},
	}
}
