package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"

	"github.com/iliyamo/venue-booking/internal/config"
	"github.com/iliyamo/venue-booking/internal/database"
	"github.com/iliyamo/venue-booking/internal/handler"
	"github.com/iliyamo/venue-booking/internal/middleware"
	"github.com/iliyamo/venue-booking/internal/queue"
	"github.com/iliyamo/venue-booking/internal/repository"
	"github.com/iliyamo/venue-booking/internal/router"
	"github.com/iliyamo/venue-booking/internal/service"
)

// serveCmd runs the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := bootstrap("booking")
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.Driver(), cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.AutoMigrate {
		applied, err := database.Migrate(ctx, db, cfg.Driver())
		if err != nil {
			return err
		}
		logger.Infoj(log.JSON{"msg": "migrations applied", "count": len(applied)})
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	opts := []service.Option{service.WithLogger(logger), service.WithLocation(loc)}
	if cfg.EventsEnabled {
		opts = append(opts, service.WithEvents(queue.NewPublisher(cfg.RabbitMQURL, logger)))
	}
	dir := service.NewDirectory(repository.NewStore(db), opts...)

	limiter, err := rateLimiter(logger)
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.Logger = logger
	router.UseCommon(e, logger)
	router.RegisterRoutes(e, db)
	router.RegisterDirectory(e, handler.NewDirectoryHandler(dir), limiter)

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		logger.Infoj(log.JSON{"msg": "listening", "addr": addr, "env": cfg.Env, "driver": cfg.Driver()})
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Infoj(log.JSON{"msg": "shutting down"})
	return e.Shutdown(shutdownCtx)
}

// rateLimiter builds the Redis token bucket.  It degrades to a
// pass-through when Redis is unreachable.
func rateLimiter(logger *log.Logger) (echo.MiddlewareFunc, error) {
	rlCfg, err := config.LoadRateLimitConfig()
	if err != nil {
		return nil, err
	}
	if !rlCfg.Enabled {
		return middleware.NewTokenBucket(rlCfg, nil), nil
	}
	redisCfg, err := config.LoadRedisConfig()
	if err != nil {
		return nil, err
	}
	rdb := config.NewRedisClient(redisCfg)
	if rdb == nil {
		logger.Warnj(log.JSON{"msg": "redis unavailable; rate limiting disabled", "addr": redisCfg.Address()})
	}
	return middleware.NewTokenBucket(rlCfg, rdb), nil
}
