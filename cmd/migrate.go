package cmd

import (
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/yt-metrics/internal/config"
	"github.com/Taichi-iskw/yt-metrics/migrations"
)

// migrateCmd applies the embedded schema migrations
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database schema migrations",
	Long:  `Create or update the snapshot, history and run log tables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Load configuration
		cfg, err := config.NewConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("database_url is not configured")
		}

		source, err := iofs.New(migrations.FS, ".")
		if err != nil {
			return fmt.Errorf("failed to read embedded migrations: %w", err)
		}

		m, err := migrate.NewWithSourceInstance("iofs", source, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to create migrate instance: %w", err)
		}
		defer m.Close()

		if err := m.Up(); err != nil {
			if err == migrate.ErrNoChange {
				fmt.Println("Database schema is already up to date.")
				return nil
			}
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		fmt.Println("Database schema migrated successfully.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
