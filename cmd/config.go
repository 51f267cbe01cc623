package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/yt-metrics/internal/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration settings",
	Long:  `Manage configuration settings for yt-metrics.`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init [DATABASE_URL]",
	Short: "Initialize configuration file",
	Long:  `Create a new configuration file with collector and database settings.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var databaseURL string
		if len(args) > 0 {
			databaseURL = args[0]
		}

		if err := config.InitConfig(databaseURL); err != nil {
			return err
		}

		configPath, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		fmt.Printf("Created configuration file: %s\n", configPath)
		fmt.Println("Please set database_url, youtube_api_key and channel_id in this file.")

		return nil
	},
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration file path and settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		fmt.Printf("Configuration file: %s\n\n", configPath)

		// Load and display current config
		cfg, err := config.NewConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		fmt.Printf("DATABASE_URL: %s\n", cfg.DatabaseURL)
		fmt.Printf("CHANNEL_ID: %s\n", cfg.ChannelID)
		if cfg.YouTubeAPIKey != "" {
			fmt.Println("YOUTUBE_API_KEY: (set)")
		} else {
			fmt.Println("YOUTUBE_API_KEY: (not set)")
		}
		fmt.Printf("Daily quota: %d\n", cfg.Collector.DailyQuota)
		fmt.Printf("Page size: %d, batch size: %d\n", cfg.Collector.PageSize, cfg.Collector.BatchSize)
		fmt.Printf("Retry: %d attempts, base delay %s\n", cfg.Collector.MaxAttempts, cfg.Collector.BaseDelay())
		if cfg.CSVOutput != "" {
			fmt.Printf("CSV output: %s\n", cfg.CSVOutput)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
