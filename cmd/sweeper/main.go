// Command sweeper runs the background worker that expires overdue
// quotations. It processes sweep tasks from the queue and enqueues one
// itself on a fixed interval.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cotizador_backend/internal/adapters"
	"cotizador_backend/internal/auth"
	"cotizador_backend/internal/cart"
	"cotizador_backend/internal/catalog"
	"cotizador_backend/internal/quotations"
	"cotizador_backend/internal/scheduler"
	"cotizador_backend/platform/config"
	"cotizador_backend/platform/db"
	"cotizador_backend/platform/events"
	"cotizador_backend/platform/logger"
	"cotizador_backend/platform/validator"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Env)
	if err := run(cfg, log); err != nil {
		log.Error("sweeper exited", "error", err.Error())
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()

	redisOpts, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return fmt.Errorf("redis url: %w", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	bus := events.NewInMemoryBus(log)
	val := validator.New()

	authModule := auth.NewModule(pool, cfg, log, val)
	catalogModule := catalog.NewModule(pool, val)
	cartModule := cart.NewModule(redisClient, cfg,
		adapters.NewCatalogReader(catalogModule.Repository()), val)
	quotationsModule := quotations.NewModule(pool,
		adapters.NewCartAccess(cartModule.Service()),
		adapters.NewStockReader(catalogModule.Repository()),
		adapters.NewUserDirectory(authModule.Repository()),
		bus, cfg, log, val)

	worker, err := scheduler.NewWorker(cfg, quotationsModule.Service(), log)
	if err != nil {
		return fmt.Errorf("worker: %w", err)
	}
	client, err := scheduler.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("task client: %w", err)
	}
	defer client.Close()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return worker.Run()
	})

	g.Go(func() error {
		<-gctx.Done()
		worker.Shutdown()
		return nil
	})

	g.Go(func() error {
		// enqueue once on boot, then on every tick
		if err := client.EnqueueExpireOverdue(gctx); err != nil {
			log.Warn("enqueue failed", "error", err.Error())
		}

		ticker := time.NewTicker(cfg.GetSweepInterval())
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if err := client.EnqueueExpireOverdue(gctx); err != nil {
					log.Warn("enqueue failed", "error", err.Error())
				}
			}
		}
	})

	return g.Wait()
}
