package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/yt-metrics/internal/config"
	"github.com/Taichi-iskw/yt-metrics/internal/repository"
)

// reportCmd shows recent collection runs from the run log
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show recent collection runs",
	Long:  `Display the most recent entries of the append-only run log.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		logger, err := newLogger()
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		defer logger.Sync()

		// Load configuration
		cfg, err := config.NewConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		// Create database connection
		dbPool, err := config.NewDatabasePool(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer dbPool.Close()

		limit, _ := cmd.Flags().GetInt("limit")

		runLogRepo := repository.NewRunLogRepository(dbPool, logger)
		entries, err := runLogRepo.ListRecent(ctx, limit)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No collection runs recorded yet.")
			return nil
		}

		// Display result as JSON
		result, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format result: %w", err)
		}

		fmt.Printf("Found %d run(s):\n%s\n", len(entries), string(result))
		return nil
	},
}

func init() {
	reportCmd.Flags().Int("limit", 10, "Maximum number of runs to show")
	rootCmd.AddCommand(reportCmd)
}
