package main

import (
	"fmt"
	"os"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"

	"github.com/iliyamo/venue-booking/internal/config"
	"github.com/iliyamo/venue-booking/internal/logging"
)

var (
	// Global flags
	envFile  string
	logLevel string
)

// rootCmd runs the HTTP server when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:   "booking",
	Short: "Venue and artist booking directory",
	Long: `booking serves the venue/artist/show directory over a JSON HTTP API.

Commands:
  serve    - run the HTTP server (default)
  migrate  - apply pending database migrations
  consume  - announce scheduled shows from the message broker`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path of the .env file to load when present")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override LOG_LEVEL (debug, info, warn, error, off)")
}

// bootstrap loads configuration and builds the process logger.
func bootstrap(prefix string) (config.Config, *log.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return config.Config{}, nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, logging.New(prefix, cfg.LogLevel), nil
}
