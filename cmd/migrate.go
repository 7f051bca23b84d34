package cmd

import (
	"fmt"

	"hushhush/config"
	"hushhush/database"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the Postgres schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return database.MigrateUp(config.Get().GetDatabaseURL())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations, one step by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := "1"
			if len(args) == 1 {
				steps = args[0]
			}
			return database.MigrateDown(config.Get().GetDatabaseURL(), steps)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			version, dirty, applied, err := database.MigrationStatus(config.Get().GetDatabaseURL())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !applied {
				fmt.Fprintln(out, "No migrations applied")
				return nil
			}
			fmt.Fprintf(out, "Current migration version: %d\n", version)
			if dirty {
				fmt.Fprintln(out, "WARNING: database is in a dirty state")
			}
			return nil
		},
	})

	return cmd
}
