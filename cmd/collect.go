package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/yt-metrics/internal/config"
	"github.com/Taichi-iskw/yt-metrics/internal/repository"
	"github.com/Taichi-iskw/yt-metrics/internal/service"
	"github.com/Taichi-iskw/yt-metrics/internal/youtube"
)

// collectCmd runs one full collection cycle
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run one collection cycle for the configured channel",
	Long: `Collect every video of the configured channel, normalize the records
and persist the snapshot, history and run log in one transaction.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Interrupt cancels the run; the enclosing transaction keeps
		// the storage consistent
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		logger, err := newLogger()
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		defer logger.Sync()

		// Load and validate configuration before any remote call
		cfg, err := config.NewConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		// Create database connection
		dbPool, err := config.NewDatabasePool(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer dbPool.Close()

		// The API client serves all three source interfaces
		client := youtube.NewClient(cfg.YouTubeAPIKey,
			youtube.WithTimeout(cfg.Collector.RequestTimeout()))

		collectionService := service.NewCollectionService(
			client, client, client,
			repository.NewRunStore(dbPool, logger),
			cfg,
			logger,
		)

		report, err := collectionService.Run(ctx)
		if err != nil {
			return fmt.Errorf("collection run failed: %w", err)
		}

		// Display result as JSON
		result, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format result: %w", err)
		}

		fmt.Println(string(result))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(collectCmd)
}
