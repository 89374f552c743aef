package queue

import (
	"context"

	"github.com/hibiken/asynq"
)

// Enqueuer is the subset of *asynq.Client used by services
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

var _ Enqueuer = (*asynq.Client)(nil)

// RedisOpt builds the asynq connection options shared by the API and the worker
func RedisOpt(addr, password string, db int) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
}

// NewClient tạo asynq client dùng để enqueue background tasks
func NewClient(addr, password string, db int) *asynq.Client {
	return asynq.NewClient(RedisOpt(addr, password, db))
}
