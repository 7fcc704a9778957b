package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/dc-scaffold/internal/docker"
	"github.com/shinji-kodama/dc-scaffold/internal/model"
	"github.com/shinji-kodama/dc-scaffold/internal/scaffold"
)

// simpleCommand builds a no-argument command that runs one orchestrator
// operation.
func simpleCommand(use, short string, op func(*scaffold.Orchestrator, context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := newOrchestrator(cmd)
			if err != nil {
				return err
			}
			return op(orch, cmd.Context())
		},
	}
}

// NewStartCommand creates the "start" command.
func NewStartCommand() *cobra.Command {
	return simpleCommand("start", "Start the stack in the background", (*scaffold.Orchestrator).Start)
}

// NewStopCommand creates the "stop" command.
func NewStopCommand() *cobra.Command {
	return simpleCommand("stop", "Stop and remove the stack's containers", (*scaffold.Orchestrator).Stop)
}

// NewRestartCommand creates the "restart" command.
func NewRestartCommand() *cobra.Command {
	return simpleCommand("restart", "Restart the stack's containers", (*scaffold.Orchestrator).Restart)
}

// NewRebuildCommand creates the "rebuild" command. Every argument is
// passed to the compose build step.
func NewRebuildCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild [build flags...]",
		Short: "Stop the stack, rebuild the images and start it again",
		Long: `Stop the stack, rebuild the images and start it again.
Arguments are passed to the compose build step.

Examples:
  dc-scaffold rebuild
  dc-scaffold rebuild -- --no-cache --pull`,
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := newOrchestrator(cmd)
			if err != nil {
				return err
			}
			return orch.RebuildAndRestart(cmd.Context(), args)
		},
	}
}

// statusResult is the JSON shape of `status --json`.
type statusResult struct {
	Project    string                     `json:"project"`
	Containers []model.ContainerInfo      `json:"containers"`
	Checkouts  []scaffold.ServiceCheckout `json:"checkouts"`
}

// NewStatusCommand creates the "status" command.
//
// The text form is compose's own `ps -a` output followed by the checked
// out refs. The JSON form queries the Docker API directly.
func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stack's containers and checked-out refs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := newOrchestrator(cmd)
			if err != nil {
				return err
			}

			checkouts, err := orch.Checkouts(cmd.Context())
			if err != nil {
				return err
			}

			if !IsJSONOutput() {
				if err := orch.Status(cmd.Context()); err != nil {
					return err
				}
				printCheckouts(cmd.OutOrStdout(), checkouts)
				return nil
			}

			containers, err := listContainers(cmd.Context(), orch)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), statusResult{
				Project:    orch.Config().ProjectName(),
				Containers: containers,
				Checkouts:  checkouts,
			})
		},
	}
}

// listContainers connects to the Docker daemon and lists the project's
// containers.
func listContainers(ctx context.Context, orch *scaffold.Orchestrator) ([]model.ContainerInfo, error) {
	cli, err := docker.NewClient()
	if err != nil {
		return nil, err
	}
	defer func() { _ = cli.Close() }()

	if err := cli.Ping(ctx); err != nil {
		return nil, err
	}
	VerboseLog("Connected to Docker daemon")

	containers, err := orch.ProjectContainers(ctx, cli.Inner())
	if err != nil {
		return nil, err
	}
	VerboseLog("Found %d containers, %d running", len(containers), docker.RunningCount(containers))
	return containers, nil
}

// printCheckouts writes one line per service with its checked-out ref.
func printCheckouts(w io.Writer, checkouts []scaffold.ServiceCheckout) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "SERVICE\tREF\tPATH")
	for _, c := range checkouts {
		ref := c.Ref
		switch {
		case !c.Present:
			ref = color.YellowString("not cloned")
		case ref == "":
			ref = color.YellowString("not a git repository")
		default:
			ref = color.GreenString(ref)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Service, ref, c.Path)
	}
	_ = tw.Flush()
}
