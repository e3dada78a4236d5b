package main

import (
	"fmt"
	"strconv"

	"realty-crm/internal/common/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		ms, err := migrationService()
		if err != nil {
			return err
		}
		if err := ms.Up(cmd.Context()); err != nil {
			return err
		}
		return printVersion(cmd, ms)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Roll back migrations (default 1)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("steps must be a positive integer, got %q", args[0])
			}
			steps = n
		}

		ms, err := migrationService()
		if err != nil {
			return err
		}
		if err := ms.Steps(cmd.Context(), -steps); err != nil {
			return err
		}
		return printVersion(cmd, ms)
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		ms, err := migrationService()
		if err != nil {
			return err
		}
		return printVersion(cmd, ms)
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
}

func migrationService() (*database.MigrationService, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return database.NewMigrationService(cfg.Database.Postgres.GetURL(), newLogger()), nil
}

func printVersion(cmd *cobra.Command, ms *database.MigrationService) error {
	version, dirty, err := ms.Version()
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]interface{}{"version": version, "dirty": dirty})
	}
	state := "clean"
	if dirty {
		state = "dirty"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (%s)\n", version, state)
	return nil
}
