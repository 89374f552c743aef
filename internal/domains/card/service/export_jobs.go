package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"vcard-backend/internal/domains/card/model"
	"vcard-backend/internal/infrastructure/queue"
	"vcard-backend/internal/shared"
	"vcard-backend/pkg/cache"
)

// ExportJobs schedule deferred PNG export và lưu trạng thái trong cache
type ExportJobs struct {
	finder EmployeeFinder
	queue  queue.Enqueuer
	cache  cache.Cache
	delay  time.Duration
	ttl    time.Duration
}

func NewExportJobs(finder EmployeeFinder, q queue.Enqueuer, c cache.Cache, delay, ttl time.Duration) *ExportJobs {
	return &ExportJobs{
		finder: finder,
		queue:  q,
		cache:  c,
		delay:  delay,
		ttl:    ttl,
	}
}

// ExportStatusKey là cache key của trạng thái export theo employee
func ExportStatusKey(id uuid.UUID) string {
	return fmt.Sprintf("card:export:%s", id.String())
}

// Schedule enqueue task render PNG sau delay, không retry
func (s *ExportJobs) Schedule(ctx context.Context, id uuid.UUID, requestedBy string) (*model.ExportStatus, error) {
	e, err := s.finder.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, model.NewCardNotFound(id.String())
	}

	payload, err := json.Marshal(shared.RenderCardPayload{
		EmployeeID:  id.String(),
		RequestedBy: requestedBy,
	})
	if err != nil {
		return nil, model.NewEnqueueFailed(err)
	}

	task := asynq.NewTask(shared.TypeRenderCardPNG, payload)
	info, err := s.queue.EnqueueContext(ctx, task,
		asynq.ProcessIn(s.delay),
		asynq.MaxRetry(0),
		asynq.Queue(shared.QueueDefault),
	)
	if err != nil {
		return nil, model.NewEnqueueFailed(err)
	}

	status := &model.ExportStatus{
		EmployeeID: id.String(),
		State:      model.ExportPending,
		TaskID:     info.ID,
	}
	if err := s.cache.Set(ctx, ExportStatusKey(id), status, s.ttl); err != nil {
		log.Warn().Err(err).Str("employee_id", id.String()).Msg("failed to store export status")
	}

	log.Info().
		Str("employee_id", id.String()).
		Str("task_id", info.ID).
		Dur("delay", s.delay).
		Msg("card export scheduled")

	return status, nil
}

// Status trả trạng thái export gần nhất, State=none nếu chưa có
func (s *ExportJobs) Status(ctx context.Context, id uuid.UUID) (*model.ExportStatus, error) {
	var status model.ExportStatus
	found, err := s.cache.Get(ctx, ExportStatusKey(id), &status)
	if err != nil {
		return nil, err
	}
	if !found {
		return &model.ExportStatus{EmployeeID: id.String(), State: model.ExportNone}, nil
	}
	return &status, nil
}

// Complete được worker gọi sau khi upload PNG xong
func (s *ExportJobs) Complete(ctx context.Context, id uuid.UUID, url string) error {
	return s.cache.Set(ctx, ExportStatusKey(id), &model.ExportStatus{
		EmployeeID: id.String(),
		State:      model.ExportDone,
		URL:        url,
	}, s.ttl)
}

// Fail ghi trạng thái failed; task chạy với MaxRetry(0) nên mọi lỗi đều là kết thúc
func (s *ExportJobs) Fail(ctx context.Context, id uuid.UUID, reason string) error {
	return s.cache.Set(ctx, ExportStatusKey(id), &model.ExportStatus{
		EmployeeID: id.String(),
		State:      model.ExportFailed,
		Error:      reason,
	}, s.ttl)
}
