package main

import (
	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"

	"github.com/iliyamo/venue-booking/internal/database"
)

// migrateCmd applies the embedded migrations for the configured driver.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap("migrate")
		if err != nil {
			return err
		}
		db, err := database.Open(cfg.Driver(), cfg.DSN())
		if err != nil {
			return err
		}
		defer db.Close()

		applied, err := database.Migrate(cmd.Context(), db, cfg.Driver())
		if err != nil {
			return err
		}
		logger.Infoj(log.JSON{"msg": "migrations applied", "driver": cfg.Driver(), "applied": applied, "count": len(applied)})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
