// Command api runs the quotation backend HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cotizador_backend/internal/adapters"
	"cotizador_backend/internal/auth"
	"cotizador_backend/internal/cart"
	"cotizador_backend/internal/catalog"
	"cotizador_backend/internal/email"
	apphttp "cotizador_backend/internal/http"
	"cotizador_backend/internal/http/router"
	"cotizador_backend/internal/quotations"
	"cotizador_backend/internal/reports"
	"cotizador_backend/migrations"
	"cotizador_backend/platform/config"
	"cotizador_backend/platform/db"
	"cotizador_backend/platform/events"
	"cotizador_backend/platform/httpkit"
	"cotizador_backend/platform/logger"
	"cotizador_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Env)
	httpkit.SetLogger(log)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := connectWithRetry(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, cfg, migrations.FS); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	redisOpts, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return fmt.Errorf("redis url: %w", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}

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
	reportsModule := reports.NewModule(pool)

	email.NewNotifier(cfg, log).Subscribe(bus)

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: pool,
		Modules: []apphttp.Module{
			authModule,
			catalogModule,
			cartModule,
			quotationsModule,
			reportsModule,
		},
	}

	server := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           router.New(app),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", cfg.GetHTTPAddr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// connectWithRetry gives the database a short grace window on boot so
// the server survives container start ordering.
func connectWithRetry(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*pgxpool.Pool, error) {
	var lastErr error
	for attempt := 1; attempt <= 5; attempt++ {
		pool, err := db.NewPool(ctx, cfg)
		if err == nil {
			return pool, nil
		}
		lastErr = err
		log.Warn("database not ready", "attempt", attempt, "error", err.Error())

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}
	return nil, fmt.Errorf("database unavailable: %w", lastErr)
}
