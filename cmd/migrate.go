package cmd

import (
	"fmt"

	"github.com/curaious/companion/internal/config"
	"github.com/curaious/companion/internal/db"
	"github.com/curaious/companion/internal/migrations"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run Migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display status of each migration",
	RunE: withMigrator(func(cmd *cobra.Command, m *migrations.Migrator) error {
		return m.MigrationStatus()
	}),
}

var migrateCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new empty migration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			return fmt.Errorf("flag `name` is required")
		}

		// Generating a file needs no database; the migrator is only used for its template.
		_, err := (&migrations.Migrator{}).CreateMigration(migrations.Dir, name)
		return err
	},
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Run up migrations",
	Long:  "Run all pending 'up' migrations by default.\nIf step is provided, it will run `N` 'up' migrations.",
	RunE: withMigrator(func(cmd *cobra.Command, m *migrations.Migrator) error {
		step, _ := cmd.Flags().GetInt("step")
		if err := m.Up(step); err != nil {
			return fmt.Errorf("unable to run `up` migrations: %w", err)
		}
		return nil
	}),
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Run down migrations",
	Long:  "Revert all applied migrations by default.\nIf step is provided, it will revert the latest `N` migrations.",
	RunE: withMigrator(func(cmd *cobra.Command, m *migrations.Migrator) error {
		step, _ := cmd.Flags().GetInt("step")
		if err := m.Down(step); err != nil {
			return fmt.Errorf("unable to run `down` migrations: %w", err)
		}
		return nil
	}),
}

// withMigrator opens the configured database for the duration of run.
func withMigrator(run func(cmd *cobra.Command, m *migrations.Migrator) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		conn := db.NewConn(config.ReadConfig())
		defer conn.Close()

		m, err := migrations.NewMigrator(conn)
		if err != nil {
			return fmt.Errorf("unable to initialize migrator: %w", err)
		}

		return run(cmd, m)
	}
}

// Register the "migrate" command
func init() {
	migrateCreateCmd.Flags().StringP("name", "n", "", "Name for the migration")
	migrateCmd.AddCommand(migrateCreateCmd)

	migrateUpCmd.Flags().IntP("step", "s", 0, "Number of migrations to execute")
	migrateCmd.AddCommand(migrateUpCmd)

	migrateDownCmd.Flags().IntP("step", "s", 0, "Number of migrations to revert")
	migrateCmd.AddCommand(migrateDownCmd)

	migrateCmd.AddCommand(migrateStatusCmd)

	rootCmd.AddCommand(migrateCmd)
}
