package cli

import (
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/dc-scaffold/internal/model"
)

// cloneFlags holds the flag values for the clone command.
type cloneFlags struct {
	frontendBranch string
	frontendTag    string
	backendBranch  string
	backendTag     string

	// remove deletes both service directories before cloning.
	remove bool
}

// NewCloneCommand creates the "clone" command.
func NewCloneCommand() *cobra.Command {
	flags := &cloneFlags{}

	cmd := &cobra.Command{
		Use:   "clone",
		Short: "Clone the frontend and backend repositories",
		Long: `Clone the frontend and backend repositories into their service
directories. A directory that already exists is left untouched; use
--remove to start from scratch.

Each service can be pinned to a branch or a tag, not both.

Examples:
  dc-scaffold clone
  dc-scaffold clone --frontend-branch develop --backend-tag v2.3.0
  dc-scaffold clone --remove`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClone(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.frontendBranch, "frontend-branch", "", "Frontend branch to check out")
	cmd.Flags().StringVar(&flags.frontendTag, "frontend-tag", "", "Frontend tag to check out")
	cmd.Flags().StringVar(&flags.backendBranch, "backend-branch", "", "Backend branch to check out")
	cmd.Flags().StringVar(&flags.backendTag, "backend-tag", "", "Backend tag to check out")
	cmd.Flags().BoolVar(&flags.remove, "remove", false, "Stop the stack and delete both service directories first")

	cmd.MarkFlagsMutuallyExclusive("frontend-branch", "frontend-tag")
	cmd.MarkFlagsMutuallyExclusive("backend-branch", "backend-tag")

	return cmd
}

// runClone executes the clone command.
//
// With --remove the stack is stopped and both checkouts are deleted first,
// so the clone starts from empty directories. A failed removal stops the
// command before anything is cloned.
func runClone(cmd *cobra.Command, flags *cloneFlags) error {
	// Step 1: Resolve the configuration.
	orch, err := newOrchestrator(cmd)
	if err != nil {
		return err
	}

	// Step 2: Clear the existing checkouts if asked to.
	if flags.remove {
		if err := orch.RemoveServiceDirectories(cmd.Context()); err != nil {
			return err
		}
	}

	// Step 3: Clone both repositories. Cobra has already rejected a
	// branch given together with a tag for the same service.
	return orch.CloneRepositories(cmd.Context(),
		model.Ref{Branch: flags.frontendBranch, Tag: flags.frontendTag},
		model.Ref{Branch: flags.backendBranch, Tag: flags.backendTag},
	)
}

// NewRemoveCommand creates the "remove" command.
func NewRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Stop the stack and delete both service directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := newOrchestrator(cmd)
			if err != nil {
				return err
			}
			return orch.RemoveServiceDirectories(cmd.Context())
		},
	}
}
