package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"

	"github.com/iliyamo/venue-booking/internal/queue"
)

// consumeCmd drains the show.scheduled queue until interrupted.
var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Announce scheduled shows from the message broker",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap("consumer")
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Infoj(log.JSON{"msg": "consuming", "queue": queue.ShowScheduledQueue})
		err = queue.NewConsumer(cfg.RabbitMQURL, logger, os.Stdout).Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(consumeCmd)
}
