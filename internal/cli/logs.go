package cli

import (
	"github.com/spf13/cobra"
)

// logsFlags holds the flag values for the logs command.
type logsFlags struct {
	follow bool
	output string
}

// NewLogsCommand creates the "logs" command.
func NewLogsCommand() *cobra.Command {
	flags := &logsFlags{}

	cmd := &cobra.Command{
		Use:   "logs [service]",
		Short: "Show a service's logs",
		Long: `Show the logs of one service, or of the whole stack when no service
is given. With --follow the logs stream until Ctrl-C. With --output the
logs are also written to a file.

Examples:
  dc-scaffold logs backend -f
  dc-scaffold logs frontend -o frontend.log`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Step 1: No service means the whole stack.
			app := ""
			if len(args) == 1 {
				app = args[0]
			}

			// Step 2: The output file is relative to where the user is.
			output, err := absArg(flags.output)
			if err != nil {
				return err
			}

			// Step 3: Resolve the configuration.
			orch, err := newOrchestrator(cmd)
			if err != nil {
				return err
			}

			// Step 4: Stream until the logs end or the context is cancelled.
			return orch.StreamLogs(cmd.Context(), app, output, flags.follow)
		},
	}

	cmd.Flags().BoolVarP(&flags.follow, "follow", "f", false, "Follow log output")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Also write the logs to this file")

	return cmd
}

// NewShellCommand creates the "shell" command.
func NewShellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Open the backend shell inside the backend container",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := newOrchestrator(cmd)
			if err != nil {
				return err
			}
			return orch.OpenInteractiveShell(cmd.Context())
		},
	}
}
