// Package server owns the process lifecycle: boot the dependencies,
// serve HTTP and shut down cleanly on SIGINT/SIGTERM.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/chenweihao/weishop/app/events"
	"github.com/chenweihao/weishop/app/services"
	"github.com/chenweihao/weishop/config"
	"github.com/chenweihao/weishop/internal/kernel"
	"github.com/chenweihao/weishop/pkg/cache"
	"github.com/chenweihao/weishop/pkg/database"
	"github.com/chenweihao/weishop/pkg/logger"
	"github.com/chenweihao/weishop/pkg/migration"
	"github.com/chenweihao/weishop/pkg/queue"
	"github.com/chenweihao/weishop/pkg/schedule"
	"github.com/chenweihao/weishop/pkg/storage"
)

const queueWorkers = 5

// Start boots every dependency and serves HTTP until the process is
// signalled. Redis being down is survivable (cache no-ops, queue falls
// back to memory); a dead database is not.
func Start() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("server: load config: %w", err)
	}

	if err := database.Connect(); err != nil {
		return err
	}
	if err := migration.New(database.DB).Run(); err != nil {
		return fmt.Errorf("server: migrate: %w", err)
	}

	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, running uncached", "error", err)
	}
	storage.Connect()

	if cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	queue.UseDB(database.DB)

	events.Register()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	queue.StartWorkers(ctx, queueWorkers)

	// Keep the dashboard warm so the first admin load after the cache
	// expires does not pay for the aggregate queries.
	stats := services.NewStatsService(database.DB)
	schedule.Every(5).Minutes().Name("stats:warm").WithoutOverlapping().Run(func() {
		if _, err := stats.Core(); err != nil {
			logger.Warn("stats warmup failed", "error", err)
		}
		if _, err := stats.Last7DaysSales(); err != nil {
			logger.Warn("stats warmup failed", "error", err)
		}
	})
	schedule.Start(ctx)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           kernel.Build(database.DB).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", srv.Addr, "env", config.AppEnv())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
