package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/accounts/internal/accounts/app"
)

func newMigrateCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the sqlite schema migrations and exit",
		Long: `Applies every pending migration to the sqlite database and prints the
resulting schema version. The redis store has no schema.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			if cfg.StoreDriver != app.DriverSQLite {
				return fmt.Errorf("migrate only applies to the %s store, ACCOUNTS_STORE_DRIVER is %q",
					app.DriverSQLite, cfg.StoreDriver)
			}
			if file == "" {
				file = cfg.DatabaseFile
			}

			db, err := app.OpenSQLite(file)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			if err := db.ApplyMigrations(); err != nil {
				return fmt.Errorf("apply migrations: %w", err)
			}

			version, dirty, err := db.MigrationVersion()
			if err != nil {
				return fmt.Errorf("read schema version: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: schema at version %d (dirty=%t)\n", file, version, dirty)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "database", "", "sqlite file to migrate (default ACCOUNTS_DATABASE_FILE)")
	return cmd
}
