// Package scheduler runs background work over asynq: enqueueing and
// processing the quotation expiry sweep.
package scheduler

import (
	"fmt"

	"cotizador_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// TaskExpireOverdue sweeps overdue sent quotations into expired.
const TaskExpireOverdue = "quotations:expire_overdue"

// NewExpireOverdueTask builds the sweep task. It carries no payload;
// the sweep always covers everything overdue at execution time.
func NewExpireOverdueTask() *asynq.Task {
	return asynq.NewTask(TaskExpireOverdue, nil)
}

// redisConnOpt translates the configured Redis URL into asynq's
// connection options.
func redisConnOpt(cfg config.RedisConfig) (asynq.RedisClientOpt, error) {
	opts, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return asynq.RedisClientOpt{}, fmt.Errorf("invalid redis url: %w", err)
	}
	return asynq.RedisClientOpt{
		Addr:     opts.Addr,
		Username: opts.Username,
		Password: opts.Password,
		DB:       opts.DB,
	}, nil
}
