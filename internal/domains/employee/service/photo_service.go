package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"vcard-backend/internal/domains/employee/model"
)

// UploadPhoto validate, crop 512x512 rồi upload lên object storage
// Trả public URL để điền vào photo_url của form
func (s *EmployeeService) UploadPhoto(ctx context.Context, data []byte) (string, error) {
	if err := s.images.ValidateImage(data); err != nil {
		return "", model.NewInvalidPhoto(err)
	}

	processed, err := s.images.ProcessPhoto(data)
	if err != nil {
		return "", model.NewInvalidPhoto(err)
	}

	key := fmt.Sprintf("photos/%s.jpg", uuid.New().String())
	url, err := s.storage.Upload(ctx, key, processed, "image/jpeg")
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("photo upload failed")
		return "", model.NewUploadFailed(err)
	}

	return url, nil
}
