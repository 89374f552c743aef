package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"vcard-backend/internal/domains/card/model"
	"vcard-backend/internal/shared/metrics"
)

// Exporter là export pipeline: PNG của card và contact (native hoặc vCard file)
type Exporter struct {
	raster  CardRasterizer
	metrics *metrics.Metrics
}

func NewExporter(raster CardRasterizer, m *metrics.Metrics) *Exporter {
	return &Exporter{raster: raster, metrics: m}
}

// PNG raster card, view not-found bị từ chối trước khi raster
func (e *Exporter) PNG(ctx context.Context, view *model.CardView) (*model.ExportFile, error) {
	if view == nil || !view.Found {
		return nil, model.NewCardNotFound("requested email")
	}

	data, err := e.raster.Raster(ctx, view)
	if err != nil {
		e.metrics.CountExport("png", "error")
		return nil, err
	}

	e.metrics.CountExport("png", "ok")
	return &model.ExportFile{
		FileName:    FileName(view.Card.FullName, ".png"),
		ContentType: "image/png",
		Data:        data,
	}, nil
}

// Contact thử native saver trước (trừ khi Capability báo Unavailable)
// Mọi lỗi native đều rơi về file .vcf, fallback luôn reachable
func (e *Exporter) Contact(ctx context.Context, view *model.CardView, saver ContactSaver) (*model.ContactOutcome, error) {
	if view == nil || !view.Found {
		return nil, model.NewCardNotFound("requested email")
	}

	if saver != nil {
		if capability := saver.Capability(ctx); capability != model.CapabilityUnavailable {
			err := saver.Save(ctx, view.Card)
			if err == nil {
				e.metrics.CountExport("native", "ok")
				return &model.ContactOutcome{Native: true}, nil
			}
			log.Debug().Err(model.NewCaptureFailed(err)).
				Str("capability", capability.String()).
				Str("employee_id", view.Card.EmployeeID).
				Msg("native contact save failed, falling back to vcf")
		}
	}

	e.metrics.CountExport("vcf", "ok")
	return &model.ContactOutcome{File: VCardFile(view.Card)}, nil
}

// VCardFile đóng gói BuildVCard thành file download
func VCardFile(card *model.Card) *model.ExportFile {
	return &model.ExportFile{
		FileName:    FileName(card.FullName, ".vcf"),
		ContentType: "text/vcard; charset=utf-8",
		Data:        BuildVCard(card),
	}
}
