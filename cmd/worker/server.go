package main

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"vcard-backend/internal/infrastructure/queue"
	"vcard-backend/internal/shared"
	"vcard-backend/pkg/container"
)

// setupAsynqServer tạo asynq server và chạy nó trong goroutine
func setupAsynqServer(cfg *Config, c *container.Container) *asynq.Server {
	mux := asynq.NewServeMux()
	registerHandlers(mux, c)

	srv := asynq.NewServer(
		queue.RedisOpt(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB),
		asynq.Config{
			Queues: map[string]int{
				shared.QueueHigh:    6,
				shared.QueueDefault: 3,
				shared.QueueLow:     1,
			},
			Concurrency: cfg.Concurrency,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				ev := log.Error()
				if errors.Is(err, asynq.SkipRetry) {
					ev = log.Warn()
				}
				ev.Err(err).Str("type", task.Type()).Msg("task failed")
			}),
		},
	)

	go func() {
		log.Info().Msg("worker starting")
		if err := srv.Run(mux); err != nil {
			log.Fatal().Err(err).Msg("worker failed")
		}
	}()

	return srv
}
