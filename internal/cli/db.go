package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/dc-scaffold/internal/model"
)

// NewDBCommand creates the "db" command group.
func NewDBCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Import or dump the PostgreSQL database",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file.sql>",
		Short: "Start the stack and load a SQL file into the database",
		Args:  cobra.ExactArgs(1),
		Long: `Start the stack, then feed a SQL file to psql inside the database
container. The file is read on the host.

Example:
  dc-scaffold db import backups/prod.sql`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Step 1: Resolve the file before --cwd comes into play.
			file, err := absArg(args[0])
			if err != nil {
				return err
			}

			// Step 2: Resolve the configuration.
			orch, err := newOrchestrator(cmd)
			if err != nil {
				return err
			}

			// Step 3: Start the stack and load the file.
			return orch.ImportDatabaseDump(cmd.Context(), file)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "dump <file.sql>",
		Short: "Dump the database to a file, keeping the previous one as .bak",
		Args:  cobra.ExactArgs(1),
		Long: `Write a pg_dump of the database to a file on the host. An existing
file is first copied to <file>.bak.

Example:
  dc-scaffold db dump backups/prod.sql`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Step 1: Resolve the file before --cwd comes into play.
			file, err := absArg(args[0])
			if err != nil {
				return err
			}

			// Step 2: Resolve the configuration.
			orch, err := newOrchestrator(cmd)
			if err != nil {
				return err
			}

			// Step 3: Back up the old dump and write the new one.
			return orch.DumpDatabase(cmd.Context(), file)
		},
	})

	return cmd
}

// absArg makes a file argument absolute relative to the directory the
// user ran the command in, not --cwd. Empty stays empty.
func absArg(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", model.NewInvalidArgumentError("invalid path "+p, err)
	}
	return abs, nil
}
