package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cotizador_backend/platform/config"

	"github.com/hibiken/asynq"
)

// Client enqueues background tasks.
type Client struct {
	client *asynq.Client
	queue  string
}

// NewClient creates a task client from the sweeper configuration.
func NewClient(cfg config.SweeperConfig) (*Client, error) {
	connOpt, err := redisConnOpt(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{
		client: asynq.NewClient(connOpt),
		queue:  cfg.GetAsynqQueueName(),
	}, nil
}

// EnqueueExpireOverdue schedules one expiry sweep. A unique window
// collapses duplicate enqueues from overlapping tickers.
func (c *Client) EnqueueExpireOverdue(ctx context.Context) error {
	_, err := c.client.EnqueueContext(ctx, NewExpireOverdueTask(),
		asynq.Queue(c.queue),
		asynq.MaxRetry(3),
		asynq.Unique(time.Minute),
	)
	if err != nil {
		if errors.Is(err, asynq.ErrDuplicateTask) {
			return nil
		}
		return fmt.Errorf("failed to enqueue expiry sweep: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (c *Client) Close() error {
	return c.client.Close()
}
