package scheduler

import (
	"context"

	"cotizador_backend/platform/config"
	"cotizador_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Sweeper performs the expiry sweep. Satisfied by the quotations service.
type Sweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

// Worker processes background tasks.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	log    *logger.Logger
}

// NewWorker creates a task worker from the sweeper configuration.
func NewWorker(cfg config.SweeperConfig, sweeper Sweeper, log *logger.Logger) (*Worker, error) {
	connOpt, err := redisConnOpt(cfg)
	if err != nil {
		return nil, err
	}

	server := asynq.NewServer(connOpt, asynq.Config{
		Concurrency: cfg.GetAsynqConcurrency(),
		Queues:      map[string]int{cfg.GetAsynqQueueName(): 1},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskExpireOverdue, func(ctx context.Context, _ *asynq.Task) error {
		_, err := sweeper.Sweep(ctx)
		return err
	})

	return &Worker{server: server, mux: mux, log: log}, nil
}

// Run starts processing tasks and blocks until Shutdown is called.
func (w *Worker) Run() error {
	w.log.Info("task worker starting")
	return w.server.Run(w.mux)
}

// Shutdown drains in-flight tasks and stops the worker.
func (w *Worker) Shutdown() {
	w.log.Info("task worker stopping")
	w.server.Shutdown()
}
