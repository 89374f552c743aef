package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"vcard-backend/internal/domains/card/model"
	"vcard-backend/internal/infrastructure/storage"
	"vcard-backend/internal/shared"
)

// CardRenderer tìm record và dựng CardView theo id
type CardRenderer interface {
	RenderByID(ctx context.Context, id uuid.UUID) (*model.CardView, error)
}

type PNGExporter interface {
	PNG(ctx context.Context, view *model.CardView) (*model.ExportFile, error)
}

// ExportTracker ghi trạng thái cuối của export vào status store
type ExportTracker interface {
	Complete(ctx context.Context, id uuid.UUID, url string) error
	Fail(ctx context.Context, id uuid.UUID, reason string) error
}

// RenderCardPNGHandler xử lý shared.TypeRenderCardPNG: render, upload, ghi status done
// Task không retry nên mọi lỗi sau khi parse được id đều ghi status failed
func RenderCardPNGHandler(renderer CardRenderer, exporter PNGExporter, store storage.ObjectStorage, jobs ExportTracker) func(ctx context.Context, t *asynq.Task) error {
	return func(ctx context.Context, t *asynq.Task) error {
		var p shared.RenderCardPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return asynq.SkipRetry // Sai format payload, không có id để ghi status
		}

		id, err := uuid.Parse(p.EmployeeID)
		if err != nil {
			return fmt.Errorf("invalid employee id %q: %w", p.EmployeeID, asynq.SkipRetry)
		}

		url, err := exportPNG(ctx, renderer, exporter, store, id)
		if err != nil {
			if ferr := jobs.Fail(ctx, id, failureReason(err)); ferr != nil {
				log.Warn().Err(ferr).Str("employee_id", id.String()).Msg("failed to store export failure")
			}
			return err
		}

		if err := jobs.Complete(ctx, id, url); err != nil {
			return fmt.Errorf("store export status: %w", err)
		}

		log.Info().
			Str("employee_id", id.String()).
			Str("requested_by", p.RequestedBy).
			Str("url", url).
			Msg("card png exported")
		return nil
	}
}

func exportPNG(ctx context.Context, renderer CardRenderer, exporter PNGExporter, store storage.ObjectStorage, id uuid.UUID) (string, error) {
	view, err := renderer.RenderByID(ctx, id)
	if err != nil {
		if model.IsCardNotFound(err) {
			// Record bị xóa sau khi schedule
			return "", fmt.Errorf("employee %s no longer exists: %w", id, asynq.SkipRetry)
		}
		return "", err
	}

	file, err := exporter.PNG(ctx, view)
	if err != nil {
		return "", fmt.Errorf("render png: %w", err)
	}

	url, err := store.Upload(ctx, storage.CardExportKey(id.String(), file.FileName), file.Data, file.ContentType)
	if err != nil {
		return "", fmt.Errorf("upload png: %w", err)
	}
	return url, nil
}

// failureReason là message ngắn cho admin, không lộ lỗi driver/storage
func failureReason(err error) string {
	switch {
	case errors.Is(err, asynq.SkipRetry):
		return "employee no longer exists"
	default:
		return "card export failed"
	}
}
